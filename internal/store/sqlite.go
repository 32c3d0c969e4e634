package store

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

// SQLiteStore serves an imported snapshot of the elevation tables from a
// SQLite database. The GeoJSON geometry asset stays a flat file; only the
// tabular data moves into the database.
type SQLiteStore struct {
	db          *sql.DB
	geojsonPath string
}

// NewSQLite opens (or creates) the snapshot database at dsn and configures
// WAL mode.
func NewSQLite(dsn, geojsonPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, geojsonPath: geojsonPath}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS imports (
	id          TEXT PRIMARY KEY,
	imported_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS transect_points (
	import_id     TEXT NOT NULL REFERENCES imports(id),
	seq           INTEGER NOT NULL,
	transect_id   INTEGER NOT NULL,
	vertex_index  INTEGER NOT NULL,
	elevation     REAL,
	dam_elevation REAL
);

CREATE TABLE IF NOT EXISTS stream_vertices (
	import_id            TEXT NOT NULL REFERENCES imports(id),
	seq                  INTEGER NOT NULL,
	vertex_id            INTEGER NOT NULL,
	elevation            REAL,
	elevation_normalized REAL
);

CREATE INDEX IF NOT EXISTS idx_transect_points_transect ON transect_points(transect_id);
CREATE INDEX IF NOT EXISTS idx_transect_points_import ON transect_points(import_id);
CREATE INDEX IF NOT EXISTS idx_stream_vertices_import ON stream_vertices(import_id);
`

// Migrate creates the snapshot schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Import replaces the snapshot with the given samples under a fresh batch
// id. Earlier batches are removed so reads always see exactly one import.
func (s *SQLiteStore) Import(ctx context.Context, points []model.TransectPoint, vertices []model.StreamVertex) (string, error) {
	batchID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin import")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		"DELETE FROM transect_points",
		"DELETE FROM stream_vertices",
		"DELETE FROM imports",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return "", eris.Wrapf(err, "sqlite: %s", stmt)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO imports (id, imported_at) VALUES (?, ?)",
		batchID, time.Now().UTC(),
	); err != nil {
		return "", eris.Wrap(err, "sqlite: insert import")
	}

	for i, p := range points {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transect_points (import_id, seq, transect_id, vertex_index, elevation, dam_elevation)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			batchID, i, p.TransectID, p.VertexIndex, nullable(p.Elevation), nullable(p.DamElevation),
		); err != nil {
			return "", eris.Wrap(err, "sqlite: insert transect point")
		}
	}

	for i, v := range vertices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stream_vertices (import_id, seq, vertex_id, elevation, elevation_normalized)
			 VALUES (?, ?, ?, ?, ?)`,
			batchID, i, v.VertexID, nullable(v.Elevation), nullable(v.NormalizedElevation),
		); err != nil {
			return "", eris.Wrap(err, "sqlite: insert stream vertex")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit import")
	}
	return batchID, nil
}

func (s *SQLiteStore) TransectPoints(ctx context.Context) ([]model.TransectPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transect_id, vertex_index, elevation, dam_elevation
		 FROM transect_points ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query transect points")
	}
	defer rows.Close() //nolint:errcheck

	var points []model.TransectPoint
	for rows.Next() {
		var p model.TransectPoint
		var elev, dam sql.NullFloat64
		if err := rows.Scan(&p.TransectID, &p.VertexIndex, &elev, &dam); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan transect point")
		}
		p.Elevation = fromNullable(elev)
		p.DamElevation = fromNullable(dam)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate transect points")
	}
	return points, nil
}

func (s *SQLiteStore) StreamVertices(ctx context.Context) ([]model.StreamVertex, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT vertex_id, elevation, elevation_normalized
		 FROM stream_vertices ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query stream vertices")
	}
	defer rows.Close() //nolint:errcheck

	var vertices []model.StreamVertex
	for rows.Next() {
		var v model.StreamVertex
		var elev, norm sql.NullFloat64
		if err := rows.Scan(&v.VertexID, &elev, &norm); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stream vertex")
		}
		v.Elevation = fromNullable(elev)
		v.NormalizedElevation = fromNullable(norm)
		vertices = append(vertices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate stream vertices")
	}
	return vertices, nil
}

func (s *SQLiteStore) TransectFeatures(ctx context.Context) ([]model.TransectFeature, error) {
	data, err := s.TransectGeoJSON(ctx)
	if err != nil {
		return nil, err
	}
	return model.ParseTransectCollection(data)
}

func (s *SQLiteStore) TransectGeoJSON(ctx context.Context) ([]byte, error) {
	fs := &FileStore{geojsonPath: s.geojsonPath}
	return fs.TransectGeoJSON(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullable maps the NaN sentinel to SQL NULL so the snapshot stores missing
// values as NULL rather than a driver-dependent NaN encoding.
func nullable(f model.Float) sql.NullFloat64 {
	if !f.Valid() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(f), Valid: true}
}

func fromNullable(n sql.NullFloat64) model.Float {
	if !n.Valid {
		return model.Float(math.NaN())
	}
	return model.Float(n.Float64)
}
