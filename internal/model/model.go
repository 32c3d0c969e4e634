// Package model defines the stream-channel geometry entities shared by the
// loaders, the locator, and the chart renderers.
package model

import (
	"sort"
)

// DefaultSpacingM is the fixed cross-section sample spacing in meters.
// vertex_index values are sample ordinals at this spacing.
const DefaultSpacingM = 2.0

// TransectPoint is one elevation sample along a cross-section perpendicular
// to the stream centerline.
type TransectPoint struct {
	TransectID   int   `json:"transect_id"`
	VertexIndex  int   `json:"vertex_index"`
	Elevation    Float `json:"elevation"`
	DamElevation Float `json:"dam_elevation"`
}

// DistanceM returns the cross-section distance of the sample from the
// transect origin.
func (p TransectPoint) DistanceM() float64 {
	return float64(p.VertexIndex) * DefaultSpacingM
}

// StreamVertex is one elevation sample along the stream's longitudinal
// centerline.
type StreamVertex struct {
	VertexID            int   `json:"vertex_id"`
	Elevation           Float `json:"elevation"`
	NormalizedElevation Float `json:"elevation_normalized"`
}

// GroupPoints groups transect points by transect id. Within each group the
// points are sorted by vertex_index so they read left to right across the
// channel. Contiguity of indices is assumed, not enforced.
func GroupPoints(points []TransectPoint) map[int][]TransectPoint {
	groups := make(map[int][]TransectPoint)
	for _, p := range points {
		groups[p.TransectID] = append(groups[p.TransectID], p)
	}
	for id, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].VertexIndex < group[j].VertexIndex
		})
		groups[id] = group
	}
	return groups
}

// FilterPoints returns the points belonging to a single transect, sorted by
// vertex_index. An unmatched id yields an empty, non-nil slice.
func FilterPoints(points []TransectPoint, transectID int) []TransectPoint {
	out := make([]TransectPoint, 0)
	for _, p := range points {
		if p.TransectID == transectID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VertexIndex < out[j].VertexIndex
	})
	return out
}

// SortVertices sorts stream vertices by vertex_id in place and returns the
// slice for chaining.
func SortVertices(vertices []StreamVertex) []StreamVertex {
	sort.SliceStable(vertices, func(i, j int) bool {
		return vertices[i].VertexID < vertices[j].VertexID
	})
	return vertices
}
