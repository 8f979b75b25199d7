package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meur/gamelib/internal/models"
)

func TestPartition(t *testing.T) {
	games := []models.Game{
		{ID: "1", Title: "zelda", Category: models.CategoryCollection, Rating: rating(9)},
		{ID: "2", Title: "Astro Bot", Category: models.CategoryWishlist},
		{ID: "3", Title: "Bloodborne", Category: models.CategoryGame, Rating: rating(10)},
		{ID: "4", Title: "Celeste", Category: ""},
		{ID: "5", Title: "Diablo", Category: models.CategoryFriends, Friends: []string{"Sam"}},
		{ID: "6", Title: "Elden Ring", Category: models.CategoryWishlist, Rating: rating(7), Friends: []string{"Alex", "Sam"}},
	}

	l := Partition(games)

	assert.Equal(t, []string{"Astro Bot", "Bloodborne", "Celeste", "Diablo", "Elden Ring", "zelda"}, titles(l.All))
	assert.Equal(t, []string{"Celeste", "zelda"}, titles(l.Collection))
	assert.Equal(t, []string{"Astro Bot", "Elden Ring"}, titles(l.Wishlist))
	assert.Equal(t, []string{"Bloodborne", "Elden Ring", "zelda"}, titles(l.Completed))
	assert.Equal(t, []string{"Diablo", "Elden Ring"}, titles(l.Friends))

	assert.Equal(t, models.ListCounts{Collection: 2, Wishlist: 2, Completed: 3, Friends: 2}, l.Counts())
	assert.Equal(t, []string{"Alex", "Sam"}, l.FriendNames())

	// input untouched
	assert.Equal(t, "zelda", games[0].Title)
}

func TestListsFor(t *testing.T) {
	l := Partition([]models.Game{
		{Title: "A"},
		{Title: "B", Category: models.CategoryWishlist},
	})

	assert.Equal(t, []string{"A"}, titles(l.For(models.ViewCollection)))
	assert.Equal(t, []string{"B"}, titles(l.For(models.ViewWishlist)))
	assert.Empty(t, l.For(models.ViewCompleted))
	assert.Empty(t, l.For(models.ViewFriends))
	assert.Equal(t, []string{"A"}, titles(l.For("bogus")))
}
