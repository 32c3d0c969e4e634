package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/craigdsouza/stream-visualizer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "stream-visualizer",
	Short: "Stream-channel geometry visualizer",
	Long:  "Serves a longitudinal river profile and per-transect lateral cross-sections on an interactive map, sourced from flat CSV/GeoJSON files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
