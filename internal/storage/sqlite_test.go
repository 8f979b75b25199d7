package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/gamelib/internal/models"
	"github.com/meur/gamelib/internal/viewstate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	r := 9.5
	in := &models.Game{
		Title:         "Bloodborne",
		Platform:      "PS4",
		Rating:        &r,
		Masterpiece:   true,
		Category:      models.CategoryGame,
		Friends:       []string{"Alex"},
		CoverURL:      "https://img/bb.png",
		Article:       json.RawMessage(`{"nodeType":"document","data":{},"content":[]}`),
		ExternalLinks: []string{"https://example.com"},
		VideoReviews:  []string{"https://video"},
		UpdatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateGame(ctx, in))
	require.NotEmpty(t, in.ID)

	got, err := store.GetGame(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Platform, got.Platform)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 9.5, *got.Rating)
	assert.True(t, got.Masterpiece)
	assert.Equal(t, in.Friends, got.Friends)
	assert.JSONEq(t, string(in.Article), string(got.Article))
	assert.Equal(t, in.ExternalLinks, got.ExternalLinks)
	assert.Equal(t, in.VideoReviews, got.VideoReviews)
	assert.True(t, in.UpdatedAt.Equal(got.UpdatedAt))
}

func TestGetGameMissing(t *testing.T) {
	got, err := newTestStore(t).GetGame(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnratedGameKeepsNilRating(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.AddGame(ctx, models.GameCreate{Title: "Hades", Platform: "Switch", Review: "fun"})
	require.NoError(t, err)

	got, err := store.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
	assert.False(t, got.HasRating())
	assert.Equal(t, "fun", got.Review)
	assert.Empty(t, got.Article)
}

func TestReplaceGames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateGame(ctx, &models.Game{Title: "Old"}))
	require.NoError(t, store.ReplaceGames(ctx, []models.Game{
		{ID: "b", Title: "Zelda"},
		{ID: "a", Title: "Astro Bot"},
	}))

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Astro Bot", games[0].Title)
	assert.Equal(t, "Zelda", games[1].Title)
}

func TestViewStatePerSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveViewState(ctx, "s1", map[string]string{"searchQuery": "halo", "viewMode": "wishlist"}))
	require.NoError(t, store.SaveViewState(ctx, "s1", map[string]string{"searchQuery": "zelda"}))
	require.NoError(t, store.SaveViewState(ctx, "s2", map[string]string{"searchQuery": "other"}))

	values, err := store.LoadViewState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"searchQuery": "zelda", "viewMode": "wishlist"}, values)

	values, err = store.LoadViewState(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSessionKVBacksViewStateStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	platforms := []string{"PS5", "PS4", "PC"}

	vs := viewstate.New(store.ViewStateKV("sess"), platforms, nil)
	require.NoError(t, vs.Hydrate(ctx))
	require.NoError(t, vs.SetSelectedPlatforms(ctx, []string{"PS5", "PS4"}))

	again := viewstate.New(store.ViewStateKV("sess"), platforms, nil)
	require.NoError(t, again.Hydrate(ctx))
	assert.Equal(t, []string{"PS5", "PS4"}, again.Get().SelectedPlatforms)

	values, err := store.LoadViewState(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, `["PS5","PS4"]`, values[viewstate.KeySelectedPlatforms])
}

func TestCorruptListColumnIsReported(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateGame(ctx, &models.Game{ID: "g1", Title: "Halo", Friends: []string{"Alex"}}))
	_, err := store.db.ExecContext(ctx, `UPDATE games SET friends = ? WHERE id = ?`, `["Alex",`, "g1")
	require.NoError(t, err)

	_, err = store.GetGame(ctx, "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "friends")

	_, err = store.ListGames(ctx)
	assert.Error(t, err)
}
