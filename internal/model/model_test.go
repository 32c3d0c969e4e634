package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPoints_SortsByVertexIndex(t *testing.T) {
	points := []TransectPoint{
		{TransectID: 1, VertexIndex: 2, Elevation: 8},
		{TransectID: 2, VertexIndex: 0, Elevation: 5},
		{TransectID: 1, VertexIndex: 0, Elevation: 10},
		{TransectID: 1, VertexIndex: 1, Elevation: 9},
	}

	groups := GroupPoints(points)
	require.Len(t, groups, 2)
	require.Len(t, groups[1], 3)

	assert.Equal(t, 0, groups[1][0].VertexIndex)
	assert.Equal(t, 1, groups[1][1].VertexIndex)
	assert.Equal(t, 2, groups[1][2].VertexIndex)
}

func TestFilterPoints_UnmatchedIDIsEmptyNotNil(t *testing.T) {
	points := []TransectPoint{{TransectID: 1, VertexIndex: 0}}

	got := FilterPoints(points, 99)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTransectPoint_DistanceM(t *testing.T) {
	p := TransectPoint{VertexIndex: 3}
	assert.InDelta(t, 6.0, p.DistanceM(), 1e-9)
}

func TestFloat_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}

	out, err := json.Marshal(wrapper{A: 10.5, B: NaN()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":10.5,"b":null}`, string(out))

	var in wrapper
	require.NoError(t, json.Unmarshal(out, &in))
	assert.InDelta(t, 10.5, float64(in.A), 1e-9)
	assert.False(t, in.B.Valid())
}

func TestFloat_MarshalNonFiniteAsNull(t *testing.T) {
	// encoding/json errors on NaN and infinity; either would abort the whole
	// response body mid-encode, so both marshal as null.
	for _, v := range []Float{NaN(), Float(math.Inf(1)), Float(math.Inf(-1))} {
		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	}
}

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"transect_id": 1, "stream_vertex_id": 42, "length_m": 48.0, "spacing_m": 2, "vertex_count": 3},
      "geometry": {"type": "LineString", "coordinates": [[74.001, 15.301], [74.002, 15.302], [74.003, 15.303]]}
    },
    {
      "type": "Feature",
      "properties": {"transect_id": 2},
      "geometry": {"type": "Point", "coordinates": [74.0, 15.3]}
    },
    {
      "type": "Feature",
      "properties": {"transect_id": 3},
      "geometry": {"type": "LineString", "coordinates": [[74.01, 15.31], [74.02, 15.32]]}
    }
  ]
}`

func TestParseTransectCollection(t *testing.T) {
	features, err := ParseTransectCollection([]byte(sampleCollection))
	require.NoError(t, err)

	// The Point feature is skipped.
	require.Len(t, features, 2)

	f := features[0]
	assert.Equal(t, 1, f.ID)
	assert.Equal(t, 42, f.StreamVertexID)
	assert.InDelta(t, 48.0, f.LengthM, 1e-9)
	assert.Equal(t, 3, f.VertexCount)
	require.Len(t, f.Coords(), 3)
	assert.InDelta(t, 74.001, f.Coords()[0][0], 1e-9)
	assert.InDelta(t, 15.301, f.Coords()[0][1], 1e-9)

	// Missing metadata falls back to defaults derived from the line.
	assert.Equal(t, 2, features[1].VertexCount)
	assert.InDelta(t, DefaultSpacingM, features[1].SpacingM, 1e-9)
}

func TestParseTransectCollection_Invalid(t *testing.T) {
	_, err := ParseTransectCollection([]byte("not geojson"))
	assert.Error(t, err)
}
