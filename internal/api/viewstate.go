package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/logging"
	"github.com/meur/gamelib/internal/models"
	"github.com/meur/gamelib/internal/viewstate"
)

// handleGetViewState returns the session's view state
func (s *Server) handleGetViewState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, s.sessions.Get(ctx, sessionID(ctx)).Get())
}

// handlePutViewState replaces every field present in the body
func (s *Server) handlePutViewState(w http.ResponseWriter, r *http.Request) {
	var update models.ViewStateUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.Apply(r.Context(), update)
	})
}

// handleTogglePlatform flips one platform in the selection
func (s *Server) handleTogglePlatform(w http.ResponseWriter, r *http.Request) {
	platform, err := url.PathUnescape(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid platform")
		return
	}
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.TogglePlatform(r.Context(), platform)
	})
}

// handleToggleFriend flips one friend in the selection
func (s *Server) handleToggleFriend(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondError(w, http.StatusBadRequest, "Invalid friend name")
		return
	}
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.ToggleFriend(r.Context(), name)
	})
}

func (s *Server) handleToggleCompleted(w http.ResponseWriter, r *http.Request) {
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.ToggleCompleted(r.Context())
	})
}

func (s *Server) handleToggleNotCompleted(w http.ResponseWriter, r *http.Request) {
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.ToggleNotCompleted(r.Context())
	})
}

func (s *Server) handleToggleMasterpiece(w http.ResponseWriter, r *http.Request) {
	s.mutateViewState(w, r, func(store *viewstate.Store) error {
		return store.ToggleMasterpiece(r.Context())
	})
}

// mutateViewState runs fn against the session's store and returns the result
func (s *Server) mutateViewState(w http.ResponseWriter, r *http.Request, fn func(store *viewstate.Store) error) {
	ctx := r.Context()
	store := s.sessions.Get(ctx, sessionID(ctx))

	if err := fn(store); err != nil {
		switch {
		case errors.Is(err, viewstate.ErrUnknownPlatform), errors.Is(err, viewstate.ErrInvalidViewMode):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			logging.FromContext(ctx).Error("update view state failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to save view state")
		}
		return
	}

	respondJSON(w, http.StatusOK, store.Get())
}
