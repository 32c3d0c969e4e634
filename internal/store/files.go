package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/craigdsouza/stream-visualizer/internal/model"
	"github.com/craigdsouza/stream-visualizer/internal/table"
)

// FileStore reads the flat assets fresh from disk on every call. Nothing is
// cached, mutated, or persisted; a file edited between two requests is
// simply re-read.
type FileStore struct {
	pointsPath   string
	verticesPath string
	geojsonPath  string
}

// NewFileStore builds a FileStore over a data directory and the three asset
// file names within it.
func NewFileStore(dir, pointsFile, verticesFile, geojsonFile string) *FileStore {
	return &FileStore{
		pointsPath:   filepath.Join(dir, pointsFile),
		verticesPath: filepath.Join(dir, verticesFile),
		geojsonPath:  filepath.Join(dir, geojsonFile),
	}
}

func (s *FileStore) TransectPoints(ctx context.Context) ([]model.TransectPoint, error) {
	records, err := s.readCSV(ctx, s.pointsPath)
	if err != nil {
		return nil, err
	}
	return table.DecodeTransectPoints(records), nil
}

func (s *FileStore) StreamVertices(ctx context.Context) ([]model.StreamVertex, error) {
	records, err := s.readCSV(ctx, s.verticesPath)
	if err != nil {
		return nil, err
	}
	return table.DecodeStreamVertices(records), nil
}

func (s *FileStore) TransectFeatures(ctx context.Context) ([]model.TransectFeature, error) {
	data, err := s.TransectGeoJSON(ctx)
	if err != nil {
		return nil, err
	}
	return model.ParseTransectCollection(data)
}

func (s *FileStore) TransectGeoJSON(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "store: context done")
	}
	data, err := os.ReadFile(s.geojsonPath)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s", s.geojsonPath)
	}
	return data, nil
}

// Close is a no-op; the FileStore holds no handles between calls.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readCSV(ctx context.Context, path string) ([]table.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "store: context done")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	records, err := table.Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "store: parse %s", path)
	}
	return records, nil
}
