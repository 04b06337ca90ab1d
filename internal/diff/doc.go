// Package diff approximates gradients and Hessians of scalar functions by
// central finite differences.
//
// A partial derivative is estimated as
//
//	(f(v + h·e_i) − f(v − h·e_i)) / 2h
//
// where the step h is scaled to the magnitude of v_i (see [Step]). A full
// gradient costs 2n evaluations of f.
//
// The Hessian is a finite difference of a finite difference: row i is the
// gradient of the scalar function v ↦ ∂f/∂v_i(v). Every entry therefore costs
// 4 evaluations of f and a full Hessian costs 4n² evaluations. The quadratic
// cost is inherent to the scheme.
//
// With [Settings.Concurrent] the independent per-component differences run on
// separate goroutines. Results are identical to the sequential computation.
package diff
