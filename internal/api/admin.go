package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meur/gamelib/internal/logging"
	"github.com/meur/gamelib/internal/models"
)

const adminPasswordHeader = "X-Admin-Password"

// handleCreateEntry adds a game through the configured creator. The shared
// admin password is checked against a bcrypt hash.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if s.creator == nil || len(s.adminHash) == 0 {
		respondError(w, http.StatusServiceUnavailable, "Admin entry creation is disabled")
		return
	}

	password := r.Header.Get(adminPasswordHeader)
	if password == "" || bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) != nil {
		respondError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	var req models.GameCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Platform != "" && !contains(s.sessions.Platforms(), req.Platform) {
		respondError(w, http.StatusBadRequest, "Unknown platform")
		return
	}
	switch req.Category {
	case "", models.CategoryCollection, models.CategoryWishlist, models.CategoryGame, models.CategoryFriends:
	default:
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	ctx := r.Context()
	id, err := s.creator.AddGame(ctx, req)
	if err != nil {
		logging.FromContext(ctx).Error("create entry failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "Failed to create entry")
		return
	}

	// Pick the new entry up without waiting for revalidation.
	if err := s.catalog.Refresh(ctx); err != nil {
		logging.FromContext(ctx).Warn("catalog refresh after create failed", zap.String("id", id), zap.Error(err))
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
