package main

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/craigdsouza/stream-visualizer/internal/config"
	"github.com/craigdsouza/stream-visualizer/internal/store"
)

// openStore builds the dataset store selected by store.driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "files":
		return store.NewFileStore(
			cfg.Data.Dir,
			cfg.Data.TransectPoints,
			cfg.Data.StreamVertices,
			cfg.Data.TransectsGeoJSON,
		), nil
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path, filepath.Join(cfg.Data.Dir, cfg.Data.TransectsGeoJSON))
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unknown store driver %q (want files or sqlite)", cfg.Store.Driver)
	}
}
