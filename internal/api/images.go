package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meur/gamelib/internal/catalog"
)

// handleGetImage serves a warmed cover, redirecting to the origin on a miss
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.preloader != nil {
		if img, ok := s.preloader.Cache().Get(id); ok {
			w.Header().Set("Content-Type", img.ContentType)
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(img.Data))
			return
		}
	}

	for _, g := range s.catalog.Lists(r.Context()).All {
		if g.ID == id && g.CoverURL != "" {
			http.Redirect(w, r, g.CoverURL, http.StatusFound)
			return
		}
	}

	game, err := s.catalog.Game(r.Context(), id)
	if err != nil || game.CoverURL == "" {
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, "Failed to fetch game")
			return
		}
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}
	http.Redirect(w, r, game.CoverURL, http.StatusFound)
}
