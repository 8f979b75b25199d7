package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/api"
	"github.com/meur/gamelib/internal/catalog"
	"github.com/meur/gamelib/internal/config"
	"github.com/meur/gamelib/internal/contentful"
	"github.com/meur/gamelib/internal/preload"
	"github.com/meur/gamelib/internal/render"
	"github.com/meur/gamelib/internal/storage"
	"github.com/meur/gamelib/internal/viewstate"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	source, creator := catalogSource(cfg, store)

	preloader := preload.New(preload.NewCache(), preload.Options{
		Concurrency: cfg.PreloadConcurrency,
		Settle:      cfg.PreloadSettle,
		Timeout:     cfg.PreloadTimeout,
	}, logger)
	defer preloader.Close()

	svc := catalog.NewService(source, preloader, cfg.Revalidate, logger)
	if err := svc.Refresh(ctx); err != nil {
		logger.Warn("initial catalog fetch failed", zap.Error(err))
	}

	sessions := viewstate.NewRegistry(func(sessionID string) viewstate.KV {
		return store.ViewStateKV(sessionID)
	}, cfg.Platforms, logger)

	srv := api.New(api.Options{
		Catalog:           svc,
		Sessions:          sessions,
		Preloader:         preloader,
		Renderer:          render.New(),
		Creator:           creator,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AllowedOrigins:    cfg.AllowedOrigins,
		Logger:            logger,
	})

	// Serve frontend static files (for production deployment)
	if cfg.StaticDir != "" {
		dir := cfg.StaticDir
		if !filepath.IsAbs(dir) {
			workDir, _ := os.Getwd()
			dir = filepath.Join(workDir, dir)
		}
		FileServer(srv.Router(), "/", http.Dir(dir))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gamelib starting",
			zap.String("addr", "http://localhost:"+cfg.Port),
			zap.String("source", cfg.Source),
			zap.String("db", cfg.DBPath),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// catalogSource picks where games are read from and where admin entries go
func catalogSource(cfg config.Config, store *storage.Store) (catalog.Source, api.EntryCreator) {
	if cfg.Source == config.SourceSQLite {
		return store, store
	}
	client := contentful.NewClient(cfg.Contentful)
	return client, client
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
