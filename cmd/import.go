package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/craigdsouza/stream-visualizer/internal/locate"
	"github.com/craigdsouza/stream-visualizer/internal/model"
	"github.com/craigdsouza/stream-visualizer/internal/store"
	"github.com/craigdsouza/stream-visualizer/internal/table"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a transect shapefile to GeoJSON and/or load the CSVs into the SQLite snapshot",
	Long: `Prepares the data directory the server reads from.

With --shapefile, converts transect polylines into the GeoJSON
FeatureCollection asset, tagging each feature with its transect id,
associated stream vertex id, and line metadata.

With --snapshot, loads the elevation CSVs into the SQLite snapshot
database so the server can run with store.driver=sqlite.`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("shapefile", "", "path to the transect polyline shapefile")
	f.String("id-field", "TRANSECT", "shapefile attribute holding the transect id")
	f.String("vertex-field", "VERTEX", "shapefile attribute holding the associated stream vertex id")
	f.Bool("snapshot", false, "load the elevation CSVs into the SQLite snapshot")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := zap.L().With(zap.String("command", "import"))

	shapefile, _ := cmd.Flags().GetString("shapefile")
	snapshot, _ := cmd.Flags().GetBool("snapshot")
	if shapefile == "" && !snapshot {
		return eris.New("import: nothing to do, pass --shapefile and/or --snapshot")
	}

	if shapefile != "" {
		idField, _ := cmd.Flags().GetString("id-field")
		vertexField, _ := cmd.Flags().GetString("vertex-field")
		out := filepath.Join(cfg.Data.Dir, cfg.Data.TransectsGeoJSON)
		n, err := convertShapefile(shapefile, out, idField, vertexField)
		if err != nil {
			return err
		}
		log.Info("transect shapefile converted", zap.String("out", out), zap.Int("features", n))
	}

	if snapshot {
		if err := importSnapshot(ctx, log); err != nil {
			return err
		}
	}

	return nil
}

// convertShapefile reads transect polylines and writes the GeoJSON
// FeatureCollection asset the map view consumes.
func convertShapefile(path, out, idField, vertexField string) (int, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return 0, eris.Wrap(err, "import: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	idIdx := fieldIndex(reader, idField)
	vertexIdx := fieldIndex(reader, vertexField)
	if idIdx < 0 {
		return 0, eris.Errorf("import: shapefile field %q not found", idField)
	}

	fc := geojson.FeatureCollection{}
	for reader.Next() {
		_, shape := reader.Shape()
		line := polyLineToLineString(shape)
		if line == nil {
			continue
		}

		props := map[string]interface{}{
			"transect_id":  atoiAttr(reader, idIdx),
			"spacing_m":    model.DefaultSpacingM,
			"vertex_count": line.NumCoords(),
			"length_m":     lineLengthM(line),
		}
		if vertexIdx >= 0 {
			props["stream_vertex_id"] = atoiAttr(reader, vertexIdx)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   line,
			Properties: props,
		})
	}

	data, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return 0, eris.Wrap(err, "import: encode feature collection")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, eris.Wrap(err, "import: create data dir")
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, eris.Wrap(err, "import: write geojson")
	}
	return len(fc.Features), nil
}

// importSnapshot loads both elevation CSVs concurrently and writes them into
// the SQLite snapshot under one batch id.
func importSnapshot(ctx context.Context, log *zap.Logger) error {
	var points []model.TransectPoint
	var vertices []model.StreamVertex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = readPoints(gctx, filepath.Join(cfg.Data.Dir, cfg.Data.TransectPoints))
		return err
	})
	g.Go(func() error {
		var err error
		vertices, err = readVertices(gctx, filepath.Join(cfg.Data.Dir, cfg.Data.StreamVertices))
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s, err := store.NewSQLite(cfg.Store.Path, filepath.Join(cfg.Data.Dir, cfg.Data.TransectsGeoJSON))
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	batchID, err := s.Import(ctx, points, vertices)
	if err != nil {
		return err
	}
	log.Info("snapshot imported",
		zap.String("batch_id", batchID),
		zap.String("db", cfg.Store.Path),
		zap.Int("transect_points", len(points)),
		zap.Int("stream_vertices", len(vertices)),
	)
	return nil
}

func readPoints(ctx context.Context, path string) ([]model.TransectPoint, error) {
	records, err := readRecords(ctx, path)
	if err != nil {
		return nil, err
	}
	return table.DecodeTransectPoints(records), nil
}

func readVertices(ctx context.Context, path string) ([]model.StreamVertex, error) {
	records, err := readRecords(ctx, path)
	if err != nil {
		return nil, err
	}
	return table.DecodeStreamVertices(records), nil
}

func readRecords(ctx context.Context, path string) ([]table.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "import: context done")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	records, err := table.Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "import: parse %s", path)
	}
	return records, nil
}

// polyLineToLineString flattens a shapefile PolyLine into a single
// LineString; multi-part transects are rare and their parts are contiguous.
func polyLineToLineString(s shp.Shape) *geom.LineString {
	pl, ok := s.(*shp.PolyLine)
	if !ok || len(pl.Points) == 0 {
		return nil
	}
	flat := make([]float64, 0, len(pl.Points)*2)
	for _, p := range pl.Points {
		flat = append(flat, p.X, p.Y)
	}
	return geom.NewLineStringFlat(geom.XY, flat).SetSRID(4326)
}

// lineLengthM sums great-circle distances along the line's vertices.
func lineLengthM(line *geom.LineString) float64 {
	coords := line.Coords()
	var total float64
	for i := 1; i < len(coords); i++ {
		total += locate.HaversineM(coords[i-1][1], coords[i-1][0], coords[i][1], coords[i][0])
	}
	return total
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if
// not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func atoiAttr(reader *shp.Reader, idx int) int {
	n, _ := strconv.Atoi(strings.TrimSpace(reader.Attribute(idx)))
	return n
}
