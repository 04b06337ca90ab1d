package storage

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/san-kum/newton/internal/numeric"
)

// Float is a float64 that survives JSON when it is NaN or infinite. Those
// values are written as the strings "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func toFloats(p numeric.Point) []Float {
	out := make([]Float, len(p))
	for i, v := range p {
		out[i] = Float(v)
	}
	return out
}

func toPoint(fs []Float) numeric.Point {
	out := make(numeric.Point, len(fs))
	for i, v := range fs {
		out[i] = float64(v)
	}
	return out
}
