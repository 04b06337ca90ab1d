package diff

import (
	"fmt"
	"math"
)

// DefaultScale multiplies the relative step of the finite differences. Too
// small a scale lets floating-point cancellation dominate the difference, too
// large a scale reintroduces truncation error.
const DefaultScale = 1 << 18

// Settings tunes the finite difference approximation.
type Settings struct {
	// Scale multiplies the step size. Zero means DefaultScale.
	Scale float64
	// Concurrent evaluates independent components on separate goroutines.
	Concurrent bool
}

func DefaultSettings() Settings {
	return Settings{Scale: DefaultScale}
}

func (s Settings) scale() float64 {
	if s.Scale == 0 {
		return DefaultScale
	}
	if s.Scale < 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0) {
		panic(fmt.Sprintf("diff: invalid scale %v", s.Scale))
	}
	return s.Scale
}
