// Package newton finds stationary points of scalar functions with Newton's
// method.
//
// Each step evaluates the Hessian A and gradient g at the current point x and
// solves A·x' = A·x − g for the next iterate instead of inverting A. Derivatives
// come from a [Derivatives] strategy: [FiniteDifference] approximates them
// from the objective alone, [Analytic] uses caller supplied functions. Both
// drive the same loop.
//
// The iteration stops once ‖g‖ drops to the gradient tolerance or the
// iteration budget runs out. Running out of budget is not an error; the
// [Result] reports it through its [Status].
package newton
