package catalog

import (
	"strings"

	"github.com/meur/gamelib/internal/models"
)

// VisibleItems returns the games of the active list that pass every filter
// in vs. Input order is preserved.
func VisibleItems(list []models.Game, vs models.ViewState) []models.Game {
	query := strings.ToLower(vs.SearchQuery)
	platforms := make(map[string]struct{}, len(vs.SelectedPlatforms))
	for _, p := range vs.SelectedPlatforms {
		platforms[p] = struct{}{}
	}
	masterpieces := MasterpieceCount(list)

	out := make([]models.Game, 0, len(list))
	for _, g := range list {
		if query != "" && !strings.Contains(strings.ToLower(g.Title), query) {
			continue
		}

		// Games without a platform never match.
		if _, ok := platforms[g.Platform]; g.Platform == "" || !ok {
			continue
		}

		completed := vs.ShowCompleted && g.HasRating()
		notCompleted := vs.ShowNotCompleted && !g.HasRating()
		if !completed && !notCompleted {
			continue
		}

		if masterpieces > 0 && vs.ShowMasterpiece && !g.Masterpiece {
			continue
		}

		if vs.ViewMode == models.ViewFriends && len(vs.SelectedFriends) > 0 && !g.HasFriend(vs.SelectedFriends) {
			continue
		}

		out = append(out, g)
	}
	return out
}

// MasterpieceCount counts games flagged as masterpieces
func MasterpieceCount(list []models.Game) int {
	n := 0
	for _, g := range list {
		if g.Masterpiece {
			n++
		}
	}
	return n
}
