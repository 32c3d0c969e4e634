package profile

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

// ChartConfig fixes the geometry of one chart: viewBox size, margins, and
// the hardcoded data domains mapped onto it.
type ChartConfig struct {
	Width  float64
	Height float64
	Margin float64

	// XDomain is cross-section distance (m) for the lateral chart and
	// vertex id for the longitudinal chart.
	XDomain Range
	YDomain Range // elevation (m)
}

// DefaultLateralConfig returns the fixed geometry of the lateral
// cross-section chart.
func DefaultLateralConfig() ChartConfig {
	return ChartConfig{
		Width:   640,
		Height:  320,
		Margin:  40,
		XDomain: Range{Min: 0, Max: 120},
		YDomain: Range{Min: 0, Max: 30},
	}
}

// DefaultLongitudinalConfig returns the fixed geometry of the longitudinal
// profile chart.
func DefaultLongitudinalConfig() ChartConfig {
	return ChartConfig{
		Width:   960,
		Height:  320,
		Margin:  40,
		XDomain: Range{Min: 0, Max: 250},
		YDomain: Range{Min: 0, Max: 30},
	}
}

// xPixels returns the horizontal pixel range inside the margins.
func (c ChartConfig) xPixels() Range {
	return Range{Min: c.Margin, Max: c.Width - c.Margin}
}

// yPixels returns the vertical pixel range inside the margins. Min > Max
// because SVG y grows downward while elevation grows upward.
func (c ChartConfig) yPixels() Range {
	return Range{Min: c.Height - c.Margin, Max: c.Margin}
}

// RenderLateral draws one transect's cross-section: a filled area under the
// channel bed, the bed line itself, an optional dam-elevation line, and a
// highlight marker when activeVertex matches a sample's vertex_index
// (pass a negative activeVertex for no highlight).
func RenderLateral(points []model.TransectPoint, activeVertex int, cfg ChartConfig) ([]byte, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, eris.New("profile: non-positive chart size")
	}

	var b strings.Builder
	openSVG(&b, cfg)
	drawGrid(&b, cfg, "distance (m)", "elevation (m)")

	xp, yp := cfg.xPixels(), cfg.yPixels()

	// Filled area from the bed line down to the chart floor.
	var area, line strings.Builder
	first := true
	var lastX float64
	for _, p := range points {
		if !p.Elevation.Valid() {
			continue
		}
		x := Scale(p.DistanceM(), cfg.XDomain, xp)
		y := Scale(float64(p.Elevation), cfg.YDomain, yp)
		if first {
			fmt.Fprintf(&area, "M%.2f,%.2f L%.2f,%.2f", x, yp.Min, x, y)
			fmt.Fprintf(&line, "M%.2f,%.2f", x, y)
			first = false
		} else {
			fmt.Fprintf(&area, " L%.2f,%.2f", x, y)
			fmt.Fprintf(&line, " L%.2f,%.2f", x, y)
		}
		lastX = x
	}
	if !first {
		fmt.Fprintf(&area, " L%.2f,%.2f Z", lastX, yp.Min)
		fmt.Fprintf(&b, `<path class="area" d="%s" fill="#b3cde3" stroke="none"/>`+"\n", area.String())
		fmt.Fprintf(&b, `<path class="bed" d="%s" fill="none" stroke="#2b5d8a" stroke-width="1.5"/>`+"\n", line.String())
	}

	// Dam elevation, when any sample carries one: a horizontal reference line.
	if dam, ok := damElevation(points); ok {
		y := Scale(dam, cfg.YDomain, yp)
		fmt.Fprintf(&b, `<line class="dam" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#c0392b" stroke-dasharray="6 3"/>`+"\n",
			xp.Min, y, xp.Max, y)
	}

	// Highlight marker for the active vertex.
	for _, p := range points {
		if p.VertexIndex != activeVertex || !p.Elevation.Valid() {
			continue
		}
		x := Scale(p.DistanceM(), cfg.XDomain, xp)
		y := Scale(float64(p.Elevation), cfg.YDomain, yp)
		fmt.Fprintf(&b, `<circle class="active" cx="%.2f" cy="%.2f" r="4" fill="#e67e22"/>`+"\n", x, y)
		break
	}

	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

// RenderLongitudinal draws the stream centerline profile: the elevation
// line, an optional normalized-elevation overlay, and a highlight marker
// when activeVertex matches a vertex_id.
func RenderLongitudinal(vertices []model.StreamVertex, activeVertex int, cfg ChartConfig) ([]byte, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, eris.New("profile: non-positive chart size")
	}

	var b strings.Builder
	openSVG(&b, cfg)
	drawGrid(&b, cfg, "stream vertex", "elevation (m)")

	xp, yp := cfg.xPixels(), cfg.yPixels()

	writeLine := func(class, stroke string, value func(model.StreamVertex) model.Float) {
		var line strings.Builder
		first := true
		for _, v := range vertices {
			ev := value(v)
			if !ev.Valid() {
				continue
			}
			x := Scale(float64(v.VertexID), cfg.XDomain, xp)
			y := Scale(float64(ev), cfg.YDomain, yp)
			if first {
				fmt.Fprintf(&line, "M%.2f,%.2f", x, y)
				first = false
			} else {
				fmt.Fprintf(&line, " L%.2f,%.2f", x, y)
			}
		}
		if !first {
			fmt.Fprintf(&b, `<path class="%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
				class, line.String(), stroke)
		}
	}

	writeLine("elevation", "#2b5d8a", func(v model.StreamVertex) model.Float { return v.Elevation })
	writeLine("normalized", "#7f8c8d", func(v model.StreamVertex) model.Float { return v.NormalizedElevation })

	for _, v := range vertices {
		if v.VertexID != activeVertex || !v.Elevation.Valid() {
			continue
		}
		x := Scale(float64(v.VertexID), cfg.XDomain, xp)
		y := Scale(float64(v.Elevation), cfg.YDomain, yp)
		fmt.Fprintf(&b, `<circle class="active" cx="%.2f" cy="%.2f" r="4" fill="#e67e22"/>`+"\n", x, y)
		break
	}

	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

// damElevation returns the first valid dam elevation among the points.
func damElevation(points []model.TransectPoint) (float64, bool) {
	for _, p := range points {
		if p.DamElevation.Valid() {
			return float64(p.DamElevation), true
		}
	}
	return 0, false
}

func openSVG(b *strings.Builder, cfg ChartConfig) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" font-family="sans-serif" font-size="10">`+"\n",
		cfg.Width, cfg.Height)
	fmt.Fprintf(b, `<rect width="%.0f" height="%.0f" fill="#ffffff"/>`+"\n", cfg.Width, cfg.Height)
}

// drawGrid writes gridlines and tick labels: five ticks per axis across the
// fixed domains.
func drawGrid(b *strings.Builder, cfg ChartConfig, xLabel, yLabel string) {
	const ticks = 5
	xp, yp := cfg.xPixels(), cfg.yPixels()

	for i := 0; i <= ticks; i++ {
		frac := float64(i) / ticks

		xv := cfg.XDomain.Min + frac*cfg.XDomain.Span()
		x := Scale(xv, cfg.XDomain, xp)
		fmt.Fprintf(b, `<line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#dddddd"/>`+"\n",
			x, yp.Min, x, yp.Max)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="middle">%g</text>`+"\n",
			x, yp.Min+14, xv)

		yv := cfg.YDomain.Min + frac*cfg.YDomain.Span()
		y := Scale(yv, cfg.YDomain, yp)
		fmt.Fprintf(b, `<line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#dddddd"/>`+"\n",
			xp.Min, y, xp.Max, y)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="end">%g</text>`+"\n",
			xp.Min-6, y+3, yv)
	}

	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n",
		xp.Mid(), cfg.Height-6, xLabel)
	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="middle" transform="rotate(-90 12 %.2f)">%s</text>`+"\n",
		12.0, yp.Mid(), yp.Mid(), yLabel)
}
