package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/catalog"
	"github.com/meur/gamelib/internal/models"
	"github.com/meur/gamelib/internal/preload"
	"github.com/meur/gamelib/internal/render"
	"github.com/meur/gamelib/internal/viewstate"
)

// EntryCreator adds a game submitted through the admin form and returns its id
type EntryCreator interface {
	AddGame(ctx context.Context, in models.GameCreate) (string, error)
}

// Options holds the server dependencies
type Options struct {
	Catalog           *catalog.Service
	Sessions          *viewstate.Registry
	Preloader         *preload.Preloader
	Renderer          *render.Renderer
	Creator           EntryCreator
	AdminPasswordHash string
	AllowedOrigins    []string
	Logger            *zap.Logger
}

// Server holds the HTTP server dependencies
type Server struct {
	catalog   *catalog.Service
	sessions  *viewstate.Registry
	preloader *preload.Preloader
	renderer  *render.Renderer
	creator   EntryCreator
	adminHash []byte
	origins   []string
	logger    *zap.Logger
	router    chi.Router
}

// New creates a new API server
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New()
	}
	s := &Server{
		catalog:   opts.Catalog,
		sessions:  opts.Sessions,
		preloader: opts.Preloader,
		renderer:  opts.Renderer,
		creator:   opts.Creator,
		adminHash: []byte(opts.AdminPasswordHash),
		origins:   opts.AllowedOrigins,
		logger:    opts.Logger,
		router:    chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", adminPasswordHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/platforms", s.handleGetPlatforms)

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware)

			// Gallery
			r.Get("/catalog", s.handleGetCatalog)

			// View state
			r.Get("/viewstate", s.handleGetViewState)
			r.Put("/viewstate", s.handlePutViewState)
			r.Post("/viewstate/platforms/{platform}/toggle", s.handleTogglePlatform)
			r.Post("/viewstate/friends/{name}/toggle", s.handleToggleFriend)
			r.Post("/viewstate/completed/toggle", s.handleToggleCompleted)
			r.Post("/viewstate/not-completed/toggle", s.handleToggleNotCompleted)
			r.Post("/viewstate/masterpiece/toggle", s.handleToggleMasterpiece)
		})

		// Games
		r.Get("/games/{id}", s.handleGetGame)
		r.Get("/games/slug/{slug}", s.handleGetGameBySlug)

		// Admin
		r.Post("/admin/entries", s.handleCreateEntry)
	})

	s.router.Get("/images/{id}", s.handleGetImage)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
