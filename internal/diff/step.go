package diff

import (
	"math"

	"github.com/san-kum/newton/internal/numeric"
)

var sqrtEpsilon = math.Sqrt(numeric.Epsilon)

// Step returns the perturbation applied to a component of value xi.
//
// Components that are effectively zero get the absolute step
// Epsilon·scale, all others the relative step |xi|·sqrt(Epsilon)·scale.
func Step(xi, scale float64) float64 {
	a := math.Abs(xi)
	if a < numeric.Epsilon {
		return numeric.Epsilon * scale
	}
	return a * sqrtEpsilon * scale
}
