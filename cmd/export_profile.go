package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/craigdsouza/stream-visualizer/internal/model"
	"github.com/craigdsouza/stream-visualizer/internal/profile"
)

var exportProfileCmd = &cobra.Command{
	Use:   "export-profile",
	Short: "Render the profile charts to SVG files",
	Long: `Renders the longitudinal profile and every transect's lateral
cross-section as standalone SVG files, the same charts the server
exposes under /api/charts.`,
	RunE: runExportProfile,
}

func init() {
	exportProfileCmd.Flags().String("out", "profiles", "output directory")
	rootCmd.AddCommand(exportProfileCmd)
}

func runExportProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	outDir, _ := cmd.Flags().GetString("out")
	log := zap.L().With(zap.String("command", "export-profile"))

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}

	vertices, err := st.StreamVertices(ctx)
	if err != nil {
		return err
	}
	svg, err := profile.RenderLongitudinal(model.SortVertices(vertices), -1, profile.DefaultLongitudinalConfig())
	if err != nil {
		return err
	}
	longPath := filepath.Join(outDir, "longitudinal.svg")
	if err := os.WriteFile(longPath, svg, 0o644); err != nil {
		return eris.Wrap(err, "export: write longitudinal profile")
	}

	points, err := st.TransectPoints(ctx)
	if err != nil {
		return err
	}
	groups := model.GroupPoints(points)
	for id, group := range groups {
		svg, err := profile.RenderLateral(group, -1, profile.DefaultLateralConfig())
		if err != nil {
			return eris.Wrapf(err, "export: render transect %d", id)
		}
		path := filepath.Join(outDir, fmt.Sprintf("transect_%d.svg", id))
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return eris.Wrapf(err, "export: write transect %d", id)
		}
	}

	log.Info("profiles exported",
		zap.String("dir", outDir),
		zap.Int("transects", len(groups)),
	)
	return nil
}
