package viewstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/gamelib/internal/models"
)

var testPlatforms = []string{"PS5", "PS4", "Switch"}

type failingKV struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingKV) Load(ctx context.Context) (map[string]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return map[string]string{}, nil
}

func (f *failingKV) Save(ctx context.Context, values map[string]string) error {
	f.saves++
	return f.saveErr
}

func hydrated(t *testing.T, kv KV, platforms []string) *Store {
	t.Helper()
	s := New(kv, platforms, nil)
	require.NoError(t, s.Hydrate(context.Background()))
	return s
}

func TestNewStoreHoldsDefaults(t *testing.T) {
	s := New(NewMemoryKV(), testPlatforms, nil)

	assert.Equal(t, PhaseDefaults, s.Phase())
	assert.Equal(t, models.DefaultViewState(testPlatforms), s.Get())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	s := hydrated(t, kv, testPlatforms)
	require.NoError(t, s.SetSelectedPlatforms(ctx, []string{"PS5", "PS4"}))

	again := hydrated(t, kv, testPlatforms)
	assert.Equal(t, []string{"PS5", "PS4"}, again.Get().SelectedPlatforms)
}

func TestWritesGatedUntilHydrated(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Save(ctx, map[string]string{KeySearchQuery: "persisted"}))

	s := New(kv, testPlatforms, nil)
	require.NoError(t, s.SetSearchQuery(ctx, "typed before hydration"))

	values, err := kv.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeySearchQuery: "persisted"}, values)

	require.NoError(t, s.Hydrate(ctx))
	assert.Equal(t, PhaseHydrated, s.Phase())
	assert.Equal(t, "persisted", s.Get().SearchQuery)

	require.NoError(t, s.ToggleMasterpiece(ctx))
	values, err = kv.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, values, 7)
	assert.Equal(t, "true", values[KeyShowMasterpiece])
}

func TestHydrateFailureStaysInDefaults(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{loadErr: errors.New("disk gone")}

	s := New(kv, testPlatforms, nil)
	assert.Error(t, s.Hydrate(ctx))
	assert.Equal(t, PhaseDefaults, s.Phase())

	require.NoError(t, s.ToggleMasterpiece(ctx))
	assert.Zero(t, kv.saves)
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{saveErr: errors.New("quota")}
	s := hydrated(t, kv, testPlatforms)

	assert.Error(t, s.ToggleMasterpiece(ctx))
	assert.True(t, s.Get().ShowMasterpiece)
}

func TestCompletionToggleGuard(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	require.NoError(t, s.ToggleNotCompleted(ctx))
	vs := s.Get()
	assert.True(t, vs.ShowCompleted)
	assert.False(t, vs.ShowNotCompleted)

	// unchecking the last checked toggle re-checks the other one
	require.NoError(t, s.ToggleCompleted(ctx))
	vs = s.Get()
	assert.False(t, vs.ShowCompleted)
	assert.True(t, vs.ShowNotCompleted)

	require.NoError(t, s.ToggleNotCompleted(ctx))
	vs = s.Get()
	assert.True(t, vs.ShowCompleted)
	assert.False(t, vs.ShowNotCompleted)
}

func TestCompletionTogglesNeverBothOff(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	for i := 0; i < 8; i++ {
		if i%3 == 0 {
			require.NoError(t, s.ToggleCompleted(ctx))
		} else {
			require.NoError(t, s.ToggleNotCompleted(ctx))
		}
		vs := s.Get()
		assert.True(t, vs.ShowCompleted || vs.ShowNotCompleted, "step %d", i)
	}
}

func TestTogglePlatform(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	require.NoError(t, s.TogglePlatform(ctx, "PS4"))
	assert.Equal(t, []string{"PS5", "Switch"}, s.Get().SelectedPlatforms)

	require.NoError(t, s.TogglePlatform(ctx, "PS4"))
	assert.Equal(t, []string{"PS5", "Switch", "PS4"}, s.Get().SelectedPlatforms)

	assert.ErrorIs(t, s.TogglePlatform(ctx, "Atari"), ErrUnknownPlatform)
}

func TestTogglingLastPlatformSelectsAnother(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)
	require.NoError(t, s.SetSelectedPlatforms(ctx, []string{"PS4"}))

	require.NoError(t, s.TogglePlatform(ctx, "PS4"))
	assert.Equal(t, []string{"PS5"}, s.Get().SelectedPlatforms)

	require.NoError(t, s.TogglePlatform(ctx, "PS5"))
	assert.Equal(t, []string{"PS4"}, s.Get().SelectedPlatforms)
}

func TestTogglingOnlyConfiguredPlatformKeepsIt(t *testing.T) {
	s := hydrated(t, NewMemoryKV(), []string{"PC"})

	require.NoError(t, s.TogglePlatform(context.Background(), "PC"))
	assert.Equal(t, []string{"PC"}, s.Get().SelectedPlatforms)
}

func TestToggleFriend(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	require.NoError(t, s.ToggleFriend(ctx, "Alex"))
	require.NoError(t, s.ToggleFriend(ctx, "Sam"))
	assert.Equal(t, []string{"Alex", "Sam"}, s.Get().SelectedFriends)

	require.NoError(t, s.ToggleFriend(ctx, "Alex"))
	assert.Equal(t, []string{"Sam"}, s.Get().SelectedFriends)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	q := "mario"
	mode := models.ViewWishlist
	require.NoError(t, s.Apply(ctx, models.ViewStateUpdate{SearchQuery: &q, ViewMode: &mode}))

	vs := s.Get()
	assert.Equal(t, "mario", vs.SearchQuery)
	assert.Equal(t, models.ViewWishlist, vs.ViewMode)
	assert.True(t, vs.ShowCompleted)

	bad := models.ViewMode("arcade")
	assert.ErrorIs(t, s.Apply(ctx, models.ViewStateUpdate{ViewMode: &bad}), ErrInvalidViewMode)
	assert.ErrorIs(t, s.SetViewMode(ctx, bad), ErrInvalidViewMode)
	assert.Equal(t, models.ViewWishlist, s.Get().ViewMode)
}

func TestGetReturnsCopy(t *testing.T) {
	s := hydrated(t, NewMemoryKV(), testPlatforms)

	vs := s.Get()
	vs.SelectedPlatforms[0] = "changed"
	assert.Equal(t, "PS5", s.Get().SelectedPlatforms[0])
}
