package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meur/gamelib/internal/models"
)

func TestEncodeWritesEveryKey(t *testing.T) {
	vs := models.DefaultViewState([]string{"PS5", "PS4"})
	vs.SelectedFriends = nil

	got := Encode(vs)
	assert.Equal(t, map[string]string{
		KeySearchQuery:       "",
		KeySelectedPlatforms: `["PS5","PS4"]`,
		KeySelectedFriends:   `[]`,
		KeyViewMode:          "collection",
		KeyShowCompleted:     "true",
		KeyShowNotCompleted:  "true",
		KeyShowMasterpiece:   "false",
	}, got)
}

func TestDecodeRoundTrip(t *testing.T) {
	defaults := models.DefaultViewState([]string{"PS5", "PS4", "PC"})
	vs := models.ViewState{
		SearchQuery:       "zelda",
		SelectedPlatforms: []string{"PS5", "PS4"},
		ViewMode:          models.ViewFriends,
		SelectedFriends:   []string{"Alex"},
		ShowCompleted:     false,
		ShowNotCompleted:  true,
		ShowMasterpiece:   true,
	}

	assert.Equal(t, vs, Decode(Encode(vs), defaults))
}

func TestDecodeFallsBackOnBadValues(t *testing.T) {
	defaults := models.DefaultViewState([]string{"PS5", "PS4"})

	got := Decode(map[string]string{
		KeySelectedPlatforms: `["PS5",`,
		KeySelectedFriends:   `null`,
		KeyViewMode:          "arcade",
		KeyShowCompleted:     "yes",
		KeyShowNotCompleted:  "FALSE",
		KeyShowMasterpiece:   "",
	}, defaults)

	assert.Equal(t, defaults, got)
}

func TestDecodeMissingKeysKeepDefaults(t *testing.T) {
	defaults := models.DefaultViewState([]string{"PS5"})
	got := Decode(map[string]string{KeySearchQuery: "halo"}, defaults)

	want := defaults.Clone()
	want.SearchQuery = "halo"
	assert.Equal(t, want, got)
}

func TestDecodeDedupesSets(t *testing.T) {
	defaults := models.DefaultViewState([]string{"PS5", "PS4"})
	got := Decode(map[string]string{KeySelectedPlatforms: `["PS4","PS4","PS5"]`}, defaults)

	assert.Equal(t, []string{"PS4", "PS5"}, got.SelectedPlatforms)
}
