// Package problems holds sample objectives with known stationary points.
package problems

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// Bundle is an objective together with a starting point, an iteration
// budget and the stationary point Newton's method should reach from there.
type Bundle struct {
	Name        string
	Description string
	Func        numeric.Objective
	// Grad and Hess are the analytic derivatives, nil when unknown.
	Grad  numeric.GradientFunc
	Hess  numeric.HessianFunc
	MaxIt int
	Start numeric.Point
	// Target is nil for objectives without a stationary point.
	Target numeric.Point
}

func (b Bundle) Dim() int { return len(b.Start) }

func (b Bundle) HasAnalytic() bool { return b.Grad != nil && b.Hess != nil }

// StartPoint returns a fresh copy of Start.
func (b Bundle) StartPoint() numeric.Point { return b.Start.Clone() }

var registry = map[string]func() Bundle{
	"square":     Square,
	"cos_1d_eq":  Cos1DEq,
	"cos_2d_eq":  Cos2DEq,
	"saddle":     Saddle,
	"rosenbrock": Rosenbrock,
}

func Get(name string) (Bundle, error) {
	fn, ok := registry[name]
	if !ok {
		return Bundle{}, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every bundle sorted by name.
func All() []Bundle {
	names := Names()
	bundles := make([]Bundle, len(names))
	for i, name := range names {
		bundles[i] = registry[name]()
	}
	return bundles
}

// Square is the paraboloid x² + y².
func Square() Bundle {
	return Bundle{
		Name:        "square",
		Description: "paraboloid x² + y², minimum at the origin",
		Func: func(v numeric.Point) float64 {
			x, y := v[0], v[1]
			return x*x + y*y
		},
		Grad: func(v numeric.Point) numeric.Point {
			return numeric.Point{2 * v[0], 2 * v[1]}
		},
		Hess: func(v numeric.Point) *mat.Dense {
			return mat.NewDense(2, 2, []float64{2, 0, 0, 2})
		},
		MaxIt:  10,
		Start:  numeric.Point{1000, 1000},
		Target: numeric.Point{0, 0},
	}
}

// Cos1DEq has derivative cos(x) − x³, so its stationary point solves
// cos(x) = x³.
func Cos1DEq() Bundle {
	return Bundle{
		Name:        "cos_1d_eq",
		Description: "sin(x) − x⁴/4, stationary where cos(x) = x³",
		Func: func(v numeric.Point) float64 {
			x := v[0]
			return math.Sin(x) - 0.25*x*x*x*x
		},
		Grad: func(v numeric.Point) numeric.Point {
			x := v[0]
			return numeric.Point{math.Cos(x) - x*x*x}
		},
		Hess: func(v numeric.Point) *mat.Dense {
			x := v[0]
			return mat.NewDense(1, 1, []float64{-math.Sin(x) - 3*x*x})
		},
		MaxIt:  20,
		Start:  numeric.Point{3},
		Target: numeric.Point{0.865474},
	}
}

// Cos2DEq is y·(sin(x) − x⁴/4). It is stationary at (0, 0) and (1.409608, 0),
// where sin(x) = x⁴/4 and y = 0. From the standard start the iteration
// settles on the second.
func Cos2DEq() Bundle {
	return Bundle{
		Name:        "cos_2d_eq",
		Description: "y·(sin(x) − x⁴/4), stationary where sin(x) = x⁴/4 and y = 0",
		Func: func(v numeric.Point) float64 {
			x, y := v[0], v[1]
			return y * (math.Sin(x) - 0.25*x*x*x*x)
		},
		Grad: func(v numeric.Point) numeric.Point {
			x, y := v[0], v[1]
			return numeric.Point{
				y * (math.Cos(x) - x*x*x),
				math.Sin(x) - 0.25*x*x*x*x,
			}
		},
		Hess: func(v numeric.Point) *mat.Dense {
			x, y := v[0], v[1]
			xy := math.Cos(x) - x*x*x
			return mat.NewDense(2, 2, []float64{
				y * (-math.Sin(x) - 3*x*x), xy,
				xy, 0,
			})
		},
		MaxIt:  50,
		Start:  numeric.Point{0.87, 10},
		Target: numeric.Point{1.409608, 0},
	}
}

// Saddle is x² − y², stationary but not extremal at the origin.
func Saddle() Bundle {
	return Bundle{
		Name:        "saddle",
		Description: "x² − y², saddle point at the origin",
		Func: func(v numeric.Point) float64 {
			x, y := v[0], v[1]
			return x*x - y*y
		},
		Grad: func(v numeric.Point) numeric.Point {
			return numeric.Point{2 * v[0], -2 * v[1]}
		},
		Hess: func(v numeric.Point) *mat.Dense {
			return mat.NewDense(2, 2, []float64{2, 0, 0, -2})
		},
		MaxIt:  10,
		Start:  numeric.Point{3, -4},
		Target: numeric.Point{0, 0},
	}
}

// Rosenbrock is a linearised three dimensional Rosenbrock variant,
//
//	100(y − x²) + (1 − x)² + 100(z − y²) + (1 − y)²
//
// It is linear in z, so ∂f/∂z = 100 everywhere and there is no stationary
// point. Its Hessian is singular.
func Rosenbrock() Bundle {
	return Bundle{
		Name:        "rosenbrock",
		Description: "linearised 3-D Rosenbrock, no stationary point",
		Func: func(v numeric.Point) float64 {
			x, y, z := v[0], v[1], v[2]
			return 100*(y-x*x) + (1-x)*(1-x) + 100*(z-y*y) + (1-y)*(1-y)
		},
		Grad: func(v numeric.Point) numeric.Point {
			x, y := v[0], v[1]
			return numeric.Point{
				-200*x - 2*(1-x),
				100 - 200*y - 2*(1-y),
				100,
			}
		},
		Hess: func(v numeric.Point) *mat.Dense {
			return mat.NewDense(3, 3, []float64{
				-198, 0, 0,
				0, -198, 0,
				0, 0, 0,
			})
		},
		MaxIt: 50,
		Start: numeric.Point{-1.2, 1, 1},
	}
}
