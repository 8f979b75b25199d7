package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meur/gamelib/internal/models"
)

func rating(v float64) *float64 { return &v }

func titles(games []models.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Title
	}
	return out
}

func sampleList() []models.Game {
	return []models.Game{
		{ID: "1", Title: "Halo", Platform: "Xbox", Rating: rating(8)},
		{ID: "2", Title: "Halo 2", Platform: "Xbox"},
		{ID: "3", Title: "God of War", Platform: "PS4", Rating: rating(10), Masterpiece: true},
		{ID: "4", Title: "Uncharted", Platform: "PS4", Friends: []string{"Alex"}},
		{ID: "5", Title: "Mystery Cart", Platform: ""},
	}
}

func TestVisibleItemsConjunction(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.SearchQuery = "halo"
	vs.SelectedPlatforms = []string{"Xbox"}
	vs.ShowCompleted = false
	vs.ShowNotCompleted = true

	got := VisibleItems(sampleList(), vs)
	assert.Equal(t, []string{"Halo 2"}, titles(got))
}

func TestVisibleItemsRatedPCGamesOnly(t *testing.T) {
	list := []models.Game{
		{ID: "1", Title: "Doom", Platform: "PC", Rating: rating(9)},
		{ID: "2", Title: "Hades", Platform: "PC"},
		{ID: "3", Title: "Halo", Platform: "Xbox", Rating: rating(8)},
		{ID: "4", Title: "Celeste", Platform: "PC", Rating: rating(10), Masterpiece: true},
		{ID: "5", Title: "Unknown"},
	}
	vs := models.DefaultViewState([]string{"PC", "Xbox"})
	vs.SearchQuery = ""
	vs.SelectedPlatforms = []string{"PC"}
	vs.ShowCompleted = true
	vs.ShowNotCompleted = false
	vs.ShowMasterpiece = false

	assert.Equal(t, []string{"Doom", "Celeste"}, titles(VisibleItems(list, vs)))
}

func TestVisibleItemsDefaultsShowEverythingWithPlatform(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})

	got := VisibleItems(sampleList(), vs)
	assert.Equal(t, []string{"Halo", "Halo 2", "God of War", "Uncharted"}, titles(got))
}

func TestVisibleItemsSearchIsCaseInsensitive(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.SearchQuery = "GOD"

	got := VisibleItems(sampleList(), vs)
	assert.Equal(t, []string{"God of War"}, titles(got))
}

func TestVisibleItemsCompletion(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.ShowNotCompleted = false

	got := VisibleItems(sampleList(), vs)
	assert.Equal(t, []string{"Halo", "God of War"}, titles(got))

	vs.ShowCompleted = false
	assert.Empty(t, VisibleItems(sampleList(), vs))
}

func TestVisibleItemsMasterpiece(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.ShowMasterpiece = true

	got := VisibleItems(sampleList(), vs)
	assert.Equal(t, []string{"God of War"}, titles(got))
}

func TestVisibleItemsMasterpieceNeutralWithoutMasterpieces(t *testing.T) {
	list := []models.Game{
		{Title: "A", Platform: "PC"},
		{Title: "B", Platform: "PC", Rating: rating(3)},
	}
	vs := models.DefaultViewState([]string{"PC"})

	vs.ShowMasterpiece = false
	off := VisibleItems(list, vs)
	vs.ShowMasterpiece = true
	on := VisibleItems(list, vs)

	assert.Equal(t, titles(off), titles(on))
	assert.Len(t, on, 2)
}

func TestVisibleItemsFriends(t *testing.T) {
	list := []models.Game{
		{Title: "A", Platform: "PC", Friends: []string{"Alex"}},
		{Title: "B", Platform: "PC", Friends: []string{"Sam"}},
		{Title: "C", Platform: "PC"},
	}
	vs := models.DefaultViewState([]string{"PC"})
	vs.SelectedFriends = []string{"Alex"}

	// friend filter only applies in friends mode
	assert.Len(t, VisibleItems(list, vs), 3)

	vs.ViewMode = models.ViewFriends
	assert.Equal(t, []string{"A"}, titles(VisibleItems(list, vs)))

	vs.SelectedFriends = nil
	assert.Len(t, VisibleItems(list, vs), 3)
}

func TestVisibleItemsEmptyPlatformSelection(t *testing.T) {
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.SelectedPlatforms = []string{}

	assert.Empty(t, VisibleItems(sampleList(), vs))
}

func TestVisibleItemsIsSubsequence(t *testing.T) {
	list := sampleList()
	vs := models.DefaultViewState([]string{"Xbox", "PS4"})
	vs.SearchQuery = "a"

	got := VisibleItems(list, vs)
	i := 0
	for _, g := range got {
		for i < len(list) && list[i].ID != g.ID {
			i++
		}
		assert.Less(t, i, len(list), "result %q out of order", g.Title)
		i++
	}
}

func TestMasterpieceCount(t *testing.T) {
	assert.Equal(t, 1, MasterpieceCount(sampleList()))
	assert.Equal(t, 0, MasterpieceCount(nil))
}
