// Package store provides access to the stream-channel datasets. The default
// FileStore reads the flat CSV/GeoJSON assets fresh on every call; the
// optional SQLiteStore serves an imported snapshot with indexed filtering.
package store

import (
	"context"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

// Store is the read interface the HTTP handlers and CLI commands consume.
type Store interface {
	// TransectPoints returns every cross-section elevation sample.
	TransectPoints(ctx context.Context) ([]model.TransectPoint, error)
	// StreamVertices returns every longitudinal centerline sample.
	StreamVertices(ctx context.Context) ([]model.StreamVertex, error)
	// TransectFeatures returns the decoded transect line geometries.
	TransectFeatures(ctx context.Context) ([]model.TransectFeature, error)
	// TransectGeoJSON returns the raw FeatureCollection asset served to
	// the map view.
	TransectGeoJSON(ctx context.Context) ([]byte, error)
	Close() error
}
