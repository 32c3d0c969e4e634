package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

func lateralPoints() []model.TransectPoint {
	return []model.TransectPoint{
		{TransectID: 1, VertexIndex: 0, Elevation: 12, DamElevation: model.NaN()},
		{TransectID: 1, VertexIndex: 1, Elevation: 8, DamElevation: 14},
		{TransectID: 1, VertexIndex: 2, Elevation: 11, DamElevation: model.NaN()},
	}
}

func TestRenderLateral(t *testing.T) {
	svg, err := RenderLateral(lateralPoints(), -1, DefaultLateralConfig())
	require.NoError(t, err)
	s := string(svg)

	assert.Contains(t, s, "<svg")
	assert.Contains(t, s, `class="area"`)
	assert.Contains(t, s, `class="bed"`)
	assert.Contains(t, s, `class="grid"`)
	// A dam elevation is present on one sample, so the reference line draws.
	assert.Contains(t, s, `class="dam"`)
	// No active vertex requested.
	assert.NotContains(t, s, `class="active"`)
}

func TestRenderLateral_ActiveVertexMarker(t *testing.T) {
	svg, err := RenderLateral(lateralPoints(), 1, DefaultLateralConfig())
	require.NoError(t, err)
	assert.Contains(t, string(svg), `class="active"`)
}

func TestRenderLateral_SkipsNaNSamples(t *testing.T) {
	points := []model.TransectPoint{
		{TransectID: 1, VertexIndex: 0, Elevation: 12, DamElevation: model.NaN()},
		{TransectID: 1, VertexIndex: 1, Elevation: model.NaN(), DamElevation: model.NaN()},
		{TransectID: 1, VertexIndex: 2, Elevation: 11, DamElevation: model.NaN()},
	}
	svg, err := RenderLateral(points, -1, DefaultLateralConfig())
	require.NoError(t, err)

	// NaN never leaks into path data.
	assert.NotContains(t, string(svg), "NaN")
}

func TestRenderLateral_EmptyInputStillRendersAxes(t *testing.T) {
	svg, err := RenderLateral(nil, -1, DefaultLateralConfig())
	require.NoError(t, err)
	s := string(svg)

	assert.Contains(t, s, `class="grid"`)
	assert.NotContains(t, s, `class="bed"`)
}

func TestRenderLongitudinal(t *testing.T) {
	vertices := []model.StreamVertex{
		{VertexID: 0, Elevation: 20, NormalizedElevation: 0.9},
		{VertexID: 1, Elevation: 19, NormalizedElevation: 0.8},
		{VertexID: 2, Elevation: 18.5, NormalizedElevation: model.NaN()},
	}

	svg, err := RenderLongitudinal(vertices, 1, DefaultLongitudinalConfig())
	require.NoError(t, err)
	s := string(svg)

	assert.Contains(t, s, `class="elevation"`)
	assert.Contains(t, s, `class="normalized"`)
	assert.Contains(t, s, `class="active"`)
	assert.NotContains(t, s, "NaN")
}

func TestRenderLongitudinal_NoNormalizedOverlayWhenAllNaN(t *testing.T) {
	vertices := []model.StreamVertex{
		{VertexID: 0, Elevation: 20, NormalizedElevation: model.NaN()},
		{VertexID: 1, Elevation: 19, NormalizedElevation: model.NaN()},
	}

	svg, err := RenderLongitudinal(vertices, -1, DefaultLongitudinalConfig())
	require.NoError(t, err)
	assert.NotContains(t, string(svg), `class="normalized"`)
}

func TestRender_InvalidConfig(t *testing.T) {
	_, err := RenderLateral(nil, -1, ChartConfig{})
	assert.Error(t, err)
	_, err = RenderLongitudinal(nil, -1, ChartConfig{})
	assert.Error(t, err)
}

func TestRenderLateral_GridTickCount(t *testing.T) {
	svg, err := RenderLateral(lateralPoints(), -1, DefaultLateralConfig())
	require.NoError(t, err)

	// Six ticks per axis (0..5 inclusive), each drawing one gridline.
	assert.Equal(t, 12, strings.Count(string(svg), `class="grid"`))
}
