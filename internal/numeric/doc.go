// Package numeric provides the shared primitives of the stationary point
// solver.
//
// The package defines the vector and function types every other package
// exchanges:
//
//   - [Point]: a vector of real numbers, the iterate of a solve
//   - [Objective]: scalar function of a point
//   - [GradientFunc]: point to gradient vector
//   - [HessianFunc]: point to Hessian matrix
//
// # Example
//
//	f := func(x numeric.Point) float64 { return x[0]*x[0] + x[1]*x[1] }
//	g := diff.NewGradient(f, diff.DefaultSettings())
//	fmt.Println(g.At(numeric.Point{1, 2}))
//
// # Dimensions
//
// The dimension of a point is fixed for the duration of a solve. Passing a
// gradient or Hessian of a different dimension is a programming error and
// panics with a [*DimensionError].
package numeric
