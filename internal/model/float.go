package model

import (
	"math"
	"strconv"
)

// Float is a float64 that survives JSON round-trips when NaN. Malformed CSV
// fields coerce to NaN rather than erroring, and encoding/json refuses to
// marshal NaN, so NaN is written as null and null reads back as NaN.
type Float float64

// NaN returns the not-a-number sentinel used for missing or malformed fields.
func NaN() Float {
	return Float(math.NaN())
}

// Valid reports whether the value holds a real number.
func (f Float) Valid() bool {
	return !math.IsNaN(float64(f))
}

// MarshalJSON writes null for any non-finite value and the plain number
// otherwise. JSON has no NaN or infinity, and a marshal error here would
// abort encoding of the whole enclosing response.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid() || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'f', -1, 64)), nil
}

// UnmarshalJSON reads null (and anything unparseable) as NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = NaN()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = NaN()
		return nil
	}
	*f = Float(v)
	return nil
}
