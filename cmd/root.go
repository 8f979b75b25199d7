// Package cmd holds the gamelib command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gamelib/internal/config"
	"github.com/meur/gamelib/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "gamelib",
	Short:        "Game collection catalog server and tools",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to ini config file",
	)
}

// setup loads the config and builds the logger shared by every subcommand
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
