package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"transect_id": 1, "stream_vertex_id": 10},
      "geometry": {"type": "LineString", "coordinates": [[74.001, 15.301], [74.002, 15.302]]}
    }
  ]
}`

func writeTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transect_points.csv"),
		[]byte("transect_id,vertex_index,elevation,dam_elevation\n1,0,10.5,\n1,1,9.0,12.0\n2,0,7.5,\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stream_vertices.csv"),
		[]byte("vertex_id,elevation,elevation_normalized\n10,4.2,0.5\n11,4.0,\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transects.geojson"),
		[]byte(testGeoJSON), 0o644))
	return dir
}

func newTestFileStore(dir string) *FileStore {
	return NewFileStore(dir, "transect_points.csv", "stream_vertices.csv", "transects.geojson")
}

func TestFileStore_TransectPoints(t *testing.T) {
	s := newTestFileStore(writeTestData(t))

	points, err := s.TransectPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 1, points[0].TransectID)
	assert.InDelta(t, 10.5, float64(points[0].Elevation), 1e-9)
	assert.False(t, points[0].DamElevation.Valid())
	assert.InDelta(t, 12.0, float64(points[1].DamElevation), 1e-9)
}

func TestFileStore_StreamVertices(t *testing.T) {
	s := newTestFileStore(writeTestData(t))

	vertices, err := s.StreamVertices(context.Background())
	require.NoError(t, err)
	require.Len(t, vertices, 2)
	assert.Equal(t, 10, vertices[0].VertexID)
	assert.False(t, vertices[1].NormalizedElevation.Valid())
}

func TestFileStore_TransectFeatures(t *testing.T) {
	s := newTestFileStore(writeTestData(t))

	features, err := s.TransectFeatures(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, 1, features[0].ID)
	assert.Equal(t, 10, features[0].StreamVertexID)
}

func TestFileStore_MissingFileErrors(t *testing.T) {
	s := newTestFileStore(t.TempDir())

	_, err := s.TransectPoints(context.Background())
	assert.Error(t, err)
	_, err = s.TransectGeoJSON(context.Background())
	assert.Error(t, err)
}

// Lifecycle: nothing is cached, a changed file is visible on the next call.
func TestFileStore_ReadsFreshOnEveryCall(t *testing.T) {
	dir := writeTestData(t)
	s := newTestFileStore(dir)

	points, err := s.TransectPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 3)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "transect_points.csv"),
		[]byte("transect_id,vertex_index,elevation\n5,0,1.0\n"), 0o644))

	points, err = s.TransectPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 5, points[0].TransectID)
}
