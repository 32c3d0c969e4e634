package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craigdsouza/stream-visualizer/internal/locate"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the transect nearest to a geographic point",
	Long: `One-shot nearest-transect lookup against the loaded transect
geometry, the same computation the map runs on every mousemove.

Example:
  locate --lat 15.3021 --lng 74.0188`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		features, err := st.TransectFeatures(cmd.Context())
		if err != nil {
			return err
		}

		match, ok := locate.Nearest(lat, lng, features)
		if !ok {
			fmt.Println("no transects loaded")
			return nil
		}
		fmt.Printf("transect %d (stream vertex %d), %.1f m away\n",
			match.TransectID, match.StreamVertexID, match.DistanceM)
		return nil
	},
}

func init() {
	f := locateCmd.Flags()
	f.Float64("lat", 0, "latitude in degrees")
	f.Float64("lng", 0, "longitude in degrees")
	_ = locateCmd.MarkFlagRequired("lat")
	_ = locateCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(locateCmd)
}
