package optim

import (
	"context"
	"errors"
	"math"
	"sort"
)

var ErrNoCandidate = errors.New("optim: no parameter assignment could be evaluated")

// Objective scores one parameter assignment; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Trial is one evaluated assignment. Err is set when the objective failed.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch evaluates an objective over the cartesian product of per-parameter
// value ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	trials     []Trial
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the assignment with the lowest score. Ties keep the earliest
// assignment in grid order. Failed evaluations are recorded and skipped.
func (g *GridSearch) Search(ctx context.Context, eval Objective) (map[string]float64, float64, error) {
	g.trials = g.trials[:0]

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

// Trials returns every assignment evaluated by the last Search, in grid order.
func (g *GridSearch) Trials() []Trial {
	return g.trials
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}

		val, err := eval(ctx, current)
		g.trials = append(g.trials, Trial{Params: current, Score: val, Err: err})
		if err != nil || math.IsNaN(val) {
			return nil
		}

		if val < *best || *bestParams == nil {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Range returns lo, lo+step, ... up to and including hi.
func Range(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Ranked returns the successful trials of the last Search ordered by score.
func (g *GridSearch) Ranked() []Trial {
	out := make([]Trial, 0, len(g.trials))
	for _, t := range g.trials {
		if t.Err == nil && !math.IsNaN(t.Score) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}
