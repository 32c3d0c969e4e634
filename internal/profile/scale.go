// Package profile turns elevation samples into scaled chart coordinates and
// renders the lateral and longitudinal profile charts as SVG.
package profile

// Range is a closed interval, used both for data domains and pixel ranges.
type Range struct {
	Min float64
	Max float64
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Span returns Max - Min. Negative spans are allowed; a pixel range with
// Min > Max flips the axis, which is how elevation maps to a y-down canvas.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Scale affinely maps value from the domain range to the pixel range.
// Domains are fixed per chart rather than derived from data so that
// multiple charts stay visually comparable. A degenerate domain
// (Min == Max) returns the pixel-range midpoint rather than dividing
// by zero.
func Scale(value float64, domain, pixels Range) float64 {
	if domain.Min == domain.Max {
		return pixels.Mid()
	}
	return pixels.Min + (value-domain.Min)/domain.Span()*pixels.Span()
}
