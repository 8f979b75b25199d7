// Package viewstate holds per-session filter and view selections and
// persists them across sessions.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/models"
)

// Phase is the hydration state of a Store
type Phase int

const (
	// PhaseDefaults: fields hold defaults and nothing is written back.
	PhaseDefaults Phase = iota
	// PhaseHydrated: persisted values were read; every change is written back.
	PhaseHydrated
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalidViewMode = errors.New("invalid view mode")
)

// Store is the single source of truth for one session's view state
type Store struct {
	kv        KV
	platforms []string
	defaults  models.ViewState
	logger    *zap.Logger

	mu    sync.Mutex
	state models.ViewState
	phase Phase
}

// New creates a Store holding defaults. Call Hydrate before relying on
// persisted values.
func New(kv KV, platforms []string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := models.DefaultViewState(platforms)
	return &Store{
		kv:        kv,
		platforms: append([]string(nil), platforms...),
		defaults:  defaults,
		logger:    logger,
		state:     defaults.Clone(),
		phase:     PhaseDefaults,
	}
}

// Hydrate overwrites defaults with persisted values and enables write-back.
// A failed read leaves the store in PhaseDefaults so stored values are never
// clobbered by defaults.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseHydrated {
		return nil
	}
	values, err := s.kv.Load(ctx)
	if err != nil {
		return fmt.Errorf("load view state: %w", err)
	}
	s.state = Decode(values, s.defaults)
	s.phase = PhaseHydrated
	return nil
}

// Phase returns the hydration phase
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Get returns a copy of the current view state
func (s *Store) Get() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Platforms returns the configured platform labels
func (s *Store) Platforms() []string {
	return append([]string(nil), s.platforms...)
}

// SetSearchQuery replaces the search text
func (s *Store) SetSearchQuery(ctx context.Context, q string) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.SearchQuery = q
		return nil
	})
}

// SetSelectedPlatforms replaces the platform selection
func (s *Store) SetSelectedPlatforms(ctx context.Context, platforms []string) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.SelectedPlatforms = dedupe(platforms)
		return nil
	})
}

// SetViewMode replaces the active list
func (s *Store) SetViewMode(ctx context.Context, mode models.ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, mode)
	}
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.ViewMode = mode
		return nil
	})
}

// SetSelectedFriends replaces the friend selection
func (s *Store) SetSelectedFriends(ctx context.Context, friends []string) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.SelectedFriends = dedupe(friends)
		return nil
	})
}

// SetShowCompleted replaces the completed toggle
func (s *Store) SetShowCompleted(ctx context.Context, show bool) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.ShowCompleted = show
		return nil
	})
}

// SetShowNotCompleted replaces the not-completed toggle
func (s *Store) SetShowNotCompleted(ctx context.Context, show bool) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.ShowNotCompleted = show
		return nil
	})
}

// SetShowMasterpiece replaces the masterpiece toggle
func (s *Store) SetShowMasterpiece(ctx context.Context, show bool) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.ShowMasterpiece = show
		return nil
	})
}

// Apply replaces every field set in u
func (s *Store) Apply(ctx context.Context, u models.ViewStateUpdate) error {
	if u.ViewMode != nil && !u.ViewMode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, *u.ViewMode)
	}
	return s.update(ctx, func(vs *models.ViewState) error {
		if u.SearchQuery != nil {
			vs.SearchQuery = *u.SearchQuery
		}
		if u.SelectedPlatforms != nil {
			vs.SelectedPlatforms = dedupe(*u.SelectedPlatforms)
		}
		if u.ViewMode != nil {
			vs.ViewMode = *u.ViewMode
		}
		if u.SelectedFriends != nil {
			vs.SelectedFriends = dedupe(*u.SelectedFriends)
		}
		if u.ShowCompleted != nil {
			vs.ShowCompleted = *u.ShowCompleted
		}
		if u.ShowNotCompleted != nil {
			vs.ShowNotCompleted = *u.ShowNotCompleted
		}
		if u.ShowMasterpiece != nil {
			vs.ShowMasterpiece = *u.ShowMasterpiece
		}
		return nil
	})
}

// TogglePlatform flips one platform. Deselecting the last selected platform
// selects the first other configured platform instead of leaving the
// selection empty.
func (s *Store) TogglePlatform(ctx context.Context, platform string) error {
	if !contains(s.platforms, platform) {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return s.update(ctx, func(vs *models.ViewState) error {
		if !contains(vs.SelectedPlatforms, platform) {
			vs.SelectedPlatforms = append(vs.SelectedPlatforms, platform)
			return nil
		}

		next := remove(vs.SelectedPlatforms, platform)
		if len(next) == 0 {
			for _, p := range s.platforms {
				if p != platform {
					next = append(next, p)
					break
				}
			}
			if len(next) == 0 {
				// only one platform configured
				next = append(next, platform)
			}
		}
		vs.SelectedPlatforms = next
		return nil
	})
}

// ToggleCompleted flips the completed toggle, re-checking not-completed
// first when both would end up unchecked.
func (s *Store) ToggleCompleted(ctx context.Context) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		if vs.ShowCompleted && !vs.ShowNotCompleted {
			vs.ShowNotCompleted = true
		}
		vs.ShowCompleted = !vs.ShowCompleted
		return nil
	})
}

// ToggleNotCompleted mirrors ToggleCompleted
func (s *Store) ToggleNotCompleted(ctx context.Context) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		if vs.ShowNotCompleted && !vs.ShowCompleted {
			vs.ShowCompleted = true
		}
		vs.ShowNotCompleted = !vs.ShowNotCompleted
		return nil
	})
}

// ToggleMasterpiece flips the masterpiece toggle
func (s *Store) ToggleMasterpiece(ctx context.Context) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		vs.ShowMasterpiece = !vs.ShowMasterpiece
		return nil
	})
}

// ToggleFriend adds or removes a friend from the selection
func (s *Store) ToggleFriend(ctx context.Context, name string) error {
	return s.update(ctx, func(vs *models.ViewState) error {
		if contains(vs.SelectedFriends, name) {
			vs.SelectedFriends = remove(vs.SelectedFriends, name)
		} else {
			vs.SelectedFriends = append(vs.SelectedFriends, name)
		}
		return nil
	})
}

// update applies fn to a copy of the state, commits it and, once hydrated,
// writes the whole state back.
func (s *Store) update(ctx context.Context, fn func(vs *models.ViewState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next

	if s.phase != PhaseHydrated {
		return nil
	}
	if err := s.kv.Save(ctx, Encode(next)); err != nil {
		s.logger.Warn("persist view state failed", zap.Error(err))
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func remove(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
