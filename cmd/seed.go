package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/meur/gamelib/internal/models"
	"github.com/meur/gamelib/internal/storage"
)

var (
	seedFile    string
	seedReplace bool
)

// seedFileContents is the layout of a YAML seed file
type seedFileContents struct {
	Games []models.Game `yaml:"games"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load games from a YAML file into the SQLite snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), seedFile, seedReplace)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "./seeds/games.yaml", "path to YAML seed file")
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "replace the whole snapshot instead of appending")
}

func runSeed(ctx context.Context, path string, replace bool) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if ctx == nil {
		ctx = context.Background()
	}

	games, err := readSeedFile(path)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if replace {
		if err := store.ReplaceGames(ctx, games); err != nil {
			return fmt.Errorf("replace games: %w", err)
		}
		logger.Info("seeding complete", zap.Int("games", len(games)), zap.Bool("replaced", true))
		return nil
	}

	seeded := 0
	for i := range games {
		if err := store.CreateGame(ctx, &games[i]); err != nil {
			logger.Warn("failed to seed game", zap.String("title", games[i].Title), zap.Error(err))
			continue
		}
		seeded++
	}
	logger.Info("seeding complete", zap.Int("games", seeded), zap.Int("skipped", len(games)-seeded))
	return nil
}

func readSeedFile(path string) ([]models.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var contents seedFileContents
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return contents.Games, nil
}
