// Package linsolve solves the square linear systems A·x = b produced by each
// Newton step.
//
// The default [SVD] solver is rank revealing: it discards singular values
// below a relative threshold and returns the minimum norm least squares
// solution, so singular and nearly singular Hessians degrade gracefully instead
// of failing. [QR] and [LU] are kept for comparison.
package linsolve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingular indicates an exactly singular matrix for a solver that
	// cannot produce a least squares answer.
	ErrSingular = errors.New("linsolve: matrix is singular")

	// ErrNonFinite indicates NaN or Inf entries in the system.
	ErrNonFinite = errors.New("linsolve: system contains NaN or Inf")

	// ErrFactorization indicates the decomposition did not converge.
	ErrFactorization = errors.New("linsolve: factorization failed")
)

// Solver solves A·x = b for a square A.
type Solver interface {
	Name() string
	Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error)
}

// SVD solves through a singular value decomposition truncated at rank
// determined by Rcond.
type SVD struct {
	// Rcond is the relative threshold below which singular values are
	// treated as zero. Zero means n·Epsilon.
	Rcond float64
}

func (SVD) Name() string { return "svd" }

func (s SVD) Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	n, err := checkSystem(a, b)
	if err != nil || n == 0 {
		return &mat.VecDense{}, err
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, ErrFactorization
	}

	rcond := s.Rcond
	if rcond == 0 {
		rcond = float64(n) * numeric.Epsilon
	}

	x := mat.NewVecDense(n, nil)
	rank := svd.Rank(rcond)
	if rank == 0 {
		return x, nil
	}
	svd.SolveVecTo(x, b, rank)
	return x, nil
}

// QR solves through a Householder QR decomposition without pivoting.
type QR struct{}

func (QR) Name() string { return "qr" }

func (QR) Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	n, err := checkSystem(a, b)
	if err != nil || n == 0 {
		return &mat.VecDense{}, err
	}

	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	if err := tolerateCondition(qr.SolveVecTo(&x, false, b)); err != nil {
		return nil, err
	}
	return &x, nil
}

// LU solves through an LU decomposition with partial pivoting.
type LU struct{}

func (LU) Name() string { return "lu" }

func (LU) Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	n, err := checkSystem(a, b)
	if err != nil || n == 0 {
		return &mat.VecDense{}, err
	}

	var x mat.VecDense
	if err := tolerateCondition(x.SolveVec(a, b)); err != nil {
		return nil, err
	}
	return &x, nil
}

// checkSystem panics on shape mismatch and rejects non-finite entries.
func checkSystem(a mat.Matrix, b mat.Vector) (int, error) {
	r, c := a.Dims()
	numeric.MustMatch("linsolve square matrix", r, c)
	numeric.MustMatch("linsolve right-hand side", r, b.Len())

	for i := 0; i < r; i++ {
		if !finite(b.AtVec(i)) {
			return r, ErrNonFinite
		}
		for j := 0; j < c; j++ {
			if !finite(a.At(i, j)) {
				return r, ErrNonFinite
			}
		}
	}
	return r, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// tolerateCondition accepts results flagged as ill-conditioned and reports
// exact singularity.
func tolerateCondition(err error) error {
	if err == nil {
		return nil
	}
	var cond mat.Condition
	if errors.As(err, &cond) {
		if math.IsInf(float64(cond), 1) {
			return fmt.Errorf("%w: %v", ErrSingular, err)
		}
		return nil
	}
	return err
}

var registry = map[string]func() Solver{
	"svd": func() Solver { return SVD{} },
	"qr":  func() Solver { return QR{} },
	"lu":  func() Solver { return LU{} },
}

// Default returns the rank revealing SVD solver.
func Default() Solver {
	return SVD{}
}

// Get returns the solver registered under name.
func Get(name string) (Solver, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
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
