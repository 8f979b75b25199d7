package viewstate

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// KVFactory returns the persistence backend for a session
type KVFactory func(sessionID string) KV

// Registry owns one Store per session
type Registry struct {
	newKV     KVFactory
	platforms []string
	logger    *zap.Logger

	mu     sync.RWMutex
	stores map[string]*Store
}

// NewRegistry creates an empty Registry
func NewRegistry(newKV KVFactory, platforms []string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		newKV:     newKV,
		platforms: platforms,
		logger:    logger,
		stores:    make(map[string]*Store),
	}
}

// Get returns the session's Store, creating and hydrating it on first use.
// Hydration is retried on later calls until it succeeds; until then the
// Store serves defaults and does not write.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		store, ok = r.stores[sessionID]
		if !ok {
			store = New(r.newKV(sessionID), r.platforms, r.logger.With(zap.String("session_id", sessionID)))
			r.stores[sessionID] = store
		}
		r.mu.Unlock()
	}

	if store.Phase() != PhaseHydrated {
		if err := store.Hydrate(ctx); err != nil {
			r.logger.Warn("view state hydration failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return store
}

// Platforms returns the configured platform labels
func (r *Registry) Platforms() []string {
	return append([]string(nil), r.platforms...)
}

// Drop forgets a session's Store; persisted values are kept
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
