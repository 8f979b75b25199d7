package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/contentful"
	"github.com/meur/gamelib/internal/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the Contentful game pages into the SQLite snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Contentful.SpaceID == "" || cfg.Contentful.AccessToken == "" {
		return fmt.Errorf("sync needs contentful space_id and access_token")
	}

	client := contentful.NewClient(cfg.Contentful)
	games, err := client.GetEntries(ctx, client.ContentType())
	if err != nil {
		return fmt.Errorf("fetch entries: %w", err)
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceGames(ctx, games); err != nil {
		return fmt.Errorf("store games: %w", err)
	}
	logger.Info("sync complete", zap.Int("games", len(games)), zap.String("db", cfg.DBPath))
	return nil
}
