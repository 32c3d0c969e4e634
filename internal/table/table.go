// Package table reads flat CSV files into header-keyed records and decodes
// them into typed elevation samples. It is deliberately permissive: no
// schema validation, and malformed numeric fields coerce to NaN rather than
// erroring, so bad rows propagate into rendering instead of failing a load.
package table

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

// Record is one CSV data row keyed by the header row.
type Record map[string]string

// Read parses CSV text into an ordered slice of records. The first row is
// the header. Empty input yields zero records and no error. Rows shorter
// than the header leave the missing fields unset.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "table: read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "table: read row")
		}
		rec := make(Record, len(header))
		for i, field := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = strings.TrimSpace(field)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Number coerces a named field to float64. Missing, non-numeric, or
// non-finite fields return NaN. ParseFloat accepts spellings like "inf" and
// "infinity"; infinities are not representable in JSON, so they collapse to
// the same NaN sentinel as any other malformed value.
func (r Record) Number(key string) float64 {
	v, ok := r[key]
	if !ok || v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// Int coerces a named field to int. Missing or non-numeric fields return
// zero; identifiers have no NaN sentinel.
func (r Record) Int(key string) int {
	f := r.Number(key)
	if math.IsNaN(f) {
		return 0
	}
	return int(f)
}

// DecodeTransectPoints converts records into transect points. Input order
// is preserved.
func DecodeTransectPoints(records []Record) []model.TransectPoint {
	points := make([]model.TransectPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, model.TransectPoint{
			TransectID:   rec.Int("transect_id"),
			VertexIndex:  rec.Int("vertex_index"),
			Elevation:    model.Float(rec.Number("elevation")),
			DamElevation: model.Float(rec.Number("dam_elevation")),
		})
	}
	return points
}

// DecodeStreamVertices converts records into stream centerline vertices.
// Input order is preserved.
func DecodeStreamVertices(records []Record) []model.StreamVertex {
	vertices := make([]model.StreamVertex, 0, len(records))
	for _, rec := range records {
		vertices = append(vertices, model.StreamVertex{
			VertexID:            rec.Int("vertex_id"),
			Elevation:           model.Float(rec.Number("elevation")),
			NormalizedElevation: model.Float(rec.Number("elevation_normalized")),
		})
	}
	return vertices
}
