package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/catalog"
	"github.com/meur/gamelib/internal/logging"
	"github.com/meur/gamelib/internal/models"
)

const maxSuggestions = 5

// handleStatus reports whether the cover cache has been warmed
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lists := s.catalog.Lists(r.Context())
	ready := true
	if s.preloader != nil {
		ready = s.preloader.Ready()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ready": ready,
		"games": len(lists.All),
	})
}

// handleGetPlatforms returns the configured platforms
func (s *Server) handleGetPlatforms(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sessions.Platforms())
}

// handleGetCatalog returns the visible games of the session's active list
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vs := s.sessions.Get(ctx, sessionID(ctx)).Get()

	lists := s.catalog.Lists(ctx)
	active := lists.For(vs.ViewMode)
	visible := catalog.VisibleItems(active, vs)

	cards := make([]models.GameCard, 0, len(visible))
	for i := range visible {
		cards = append(cards, toCard(&visible[i]))
	}

	respondJSON(w, http.StatusOK, models.CatalogPage{
		ViewState:        vs,
		Items:            cards,
		TotalCount:       len(cards),
		ListCount:        len(active),
		MasterpieceCount: catalog.MasterpieceCount(active),
		Counts:           lists.Counts(),
		Friends:          lists.FriendNames(),
	})
}

// handleGetGame returns a single game by ID
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := s.catalog.Game(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("fetch game failed", zap.String("game_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch game")
		return
	}

	respondJSON(w, http.StatusOK, s.toDetail(r, game))
}

// handleGetGameBySlug resolves a game from its title slug
func (s *Server) handleGetGameBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	game, err := s.catalog.GameBySlug(r.Context(), slug)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       "Game not found",
			"title":       catalog.SlugToTitle(slug),
			"suggestions": s.catalog.Suggest(r.Context(), slug, maxSuggestions),
		})
		return
	}

	respondJSON(w, http.StatusOK, s.toDetail(r, game))
}

func toCard(g *models.Game) models.GameCard {
	card := models.GameCard{
		ID:          g.ID,
		Slug:        catalog.TitleToSlug(g.Title),
		Title:       g.Title,
		Platform:    g.Platform,
		Rating:      g.Rating,
		Masterpiece: g.Masterpiece,
		CoverURL:    g.CoverURL,
	}
	if g.Rating != nil {
		card.RatingColor = catalog.RatingStyle(*g.Rating).Color
	}
	return card
}

func (s *Server) toDetail(r *http.Request, g *models.Game) models.GameDetail {
	article, err := s.renderer.Article(g)
	if err != nil {
		logging.FromContext(r.Context()).Warn("render article failed", zap.String("game_id", g.ID), zap.Error(err))
	}
	return models.GameDetail{
		GameCard:      toCard(g),
		Category:      g.Category,
		Friends:       g.Friends,
		ArticleHTML:   article,
		ExternalLinks: g.ExternalLinks,
		VideoReviews:  g.VideoReviews,
	}
}
