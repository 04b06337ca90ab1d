// Package viz renders Newton solves in the terminal.
//
// [Report] prints a styled summary of a finished solve, [Convergence] plots
// log10 of the gradient norm per iteration, and [Model] is a Bubble Tea
// program that takes Newton steps on demand while drawing the path of the
// iterates on a braille [Canvas].
//
// # Key Bindings
//
//	n / →  - take one step
//	Space  - run / pause automatic stepping
//	R      - restart from the initial point
//	Q      - quit
package viz
