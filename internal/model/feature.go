package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// TransectFeature is a transect's line geometry (ordered lon/lat pairs)
// with its descriptive metadata. Immutable once loaded; identity is the
// transect id.
type TransectFeature struct {
	ID             int              `json:"transect_id"`
	StreamVertexID int              `json:"stream_vertex_id"`
	LengthM        float64          `json:"length_m"`
	SpacingM       float64          `json:"spacing_m"`
	VertexCount    int              `json:"vertex_count"`
	Line           *geom.LineString `json:"-"`
}

// Coords returns the line's vertices as [lon, lat] pairs.
func (f TransectFeature) Coords() []geom.Coord {
	if f.Line == nil {
		return nil
	}
	return f.Line.Coords()
}

// ParseTransectCollection decodes a GeoJSON FeatureCollection of transect
// LineStrings. Features whose geometry is not a LineString are skipped.
func ParseTransectCollection(data []byte) ([]TransectFeature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "model: decode transect collection")
	}

	features := make([]TransectFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		line, ok := f.Geometry.(*geom.LineString)
		if !ok {
			continue
		}
		tf := TransectFeature{
			ID:             intProp(f.Properties, "transect_id"),
			StreamVertexID: intProp(f.Properties, "stream_vertex_id"),
			LengthM:        floatProp(f.Properties, "length_m"),
			SpacingM:       floatProp(f.Properties, "spacing_m"),
			VertexCount:    intProp(f.Properties, "vertex_count"),
			Line:           line,
		}
		if tf.SpacingM == 0 {
			tf.SpacingM = DefaultSpacingM
		}
		if tf.VertexCount == 0 {
			tf.VertexCount = line.NumCoords()
		}
		features = append(features, tf)
	}
	return features, nil
}

// intProp reads a numeric GeoJSON property as int. JSON numbers decode as
// float64; string ids in hand-edited files are tolerated too.
func intProp(props map[string]interface{}, key string) int {
	return int(floatProp(props, key))
}

func floatProp(props map[string]interface{}, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		var f float64
		_ = json.Unmarshal([]byte(v), &f)
		return f
	default:
		return 0
	}
}
