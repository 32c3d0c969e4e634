// Package locate answers "which transect is the cursor nearest to" for map
// hover events. It is a linear scan over every vertex of every transect;
// no spatial index, acceptable because transect counts are small.
package locate

import (
	"math"

	"github.com/craigdsouza/stream-visualizer/internal/model"
)

// earthRadiusM is the mean Earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

// Match identifies the transect nearest to a query point.
type Match struct {
	TransectID     int     `json:"transect_id"`
	StreamVertexID int     `json:"stream_vertex_id"`
	DistanceM      float64 `json:"distance_m"`
}

// HaversineM returns the great-circle distance in meters between two
// lat/lon points given in degrees.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Nearest returns the transect whose line comes closest to the query point,
// measured as the minimum haversine distance from the point to any vertex
// of the line. Returns ok=false when no transects are loaded. Exactly equal
// distances resolve to the first transect in slice order; the tie-break is
// stable but otherwise arbitrary.
func Nearest(lat, lng float64, features []model.TransectFeature) (Match, bool) {
	best := Match{DistanceM: math.Inf(1)}
	found := false

	for _, f := range features {
		d := minVertexDistanceM(lat, lng, f)
		if math.IsInf(d, 1) {
			continue
		}
		if !found || d < best.DistanceM {
			best = Match{
				TransectID:     f.ID,
				StreamVertexID: f.StreamVertexID,
				DistanceM:      d,
			}
			found = true
		}
	}
	return best, found
}

// minVertexDistanceM returns the smallest distance from the point to any
// vertex of the feature's line, or +Inf for an empty line.
func minVertexDistanceM(lat, lng float64, f model.TransectFeature) float64 {
	minD := math.Inf(1)
	for _, c := range f.Coords() {
		// GeoJSON coordinate order is [lon, lat].
		if d := HaversineM(lat, lng, c[1], c[0]); d < minD {
			minD = d
		}
	}
	return minD
}
