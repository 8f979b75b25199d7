package catalog

import (
	"sort"
	"strings"

	"github.com/meur/gamelib/internal/models"
)

// Lists is the full collection split into the logical lists a view mode selects
type Lists struct {
	All        []models.Game
	Collection []models.Game
	Wishlist   []models.Game
	Completed  []models.Game
	Friends    []models.Game
}

// Partition sorts games by title and splits them by category.
//
// Completed holds games categorised as Game plus collection or wishlist games
// that carry a rating. Friends holds games categorised as Friends or with
// friend names attached.
func Partition(games []models.Game) Lists {
	all := make([]models.Game, len(games))
	copy(all, games)
	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Title) < strings.ToLower(all[j].Title)
	})

	var l Lists
	l.All = all
	for _, g := range all {
		inCollection := g.Category == "" || g.Category == models.CategoryCollection
		inWishlist := g.Category == models.CategoryWishlist

		if inCollection {
			l.Collection = append(l.Collection, g)
		}
		if inWishlist {
			l.Wishlist = append(l.Wishlist, g)
		}
		if g.Category == models.CategoryGame || ((inCollection || inWishlist) && g.HasRating()) {
			l.Completed = append(l.Completed, g)
		}
		if g.Category == models.CategoryFriends || len(g.Friends) > 0 {
			l.Friends = append(l.Friends, g)
		}
	}
	return l
}

// For returns the list selected by mode; unknown modes select the collection.
func (l Lists) For(mode models.ViewMode) []models.Game {
	switch mode {
	case models.ViewWishlist:
		return l.Wishlist
	case models.ViewCompleted:
		return l.Completed
	case models.ViewFriends:
		return l.Friends
	default:
		return l.Collection
	}
}

// Counts returns the size of each list
func (l Lists) Counts() models.ListCounts {
	return models.ListCounts{
		Collection: len(l.Collection),
		Wishlist:   len(l.Wishlist),
		Completed:  len(l.Completed),
		Friends:    len(l.Friends),
	}
}

// FriendNames returns the distinct friend names of the friends list, sorted
func (l Lists) FriendNames() []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, g := range l.Friends {
		for _, f := range g.Friends {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			names = append(names, f)
		}
	}
	sort.Strings(names)
	return names
}
