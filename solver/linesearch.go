package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"q.log/qpsimplex/model"
)

const (
	minArmijoStep = 1e-20

	// flatCurvature is the curvature per unit ‖d‖² under which f is taken as
	// linear along d.
	flatCurvature = 1e-12
)

// searcher returns a step α ∈ [0, amax] along w.d from w.x. w.gd holds the
// directional derivative ⟨g,d⟩.
type searcher interface {
	step(p *model.Problem, w *workspace, amax float64) (float64, error)
}

// slope returns ⟨g,d⟩ for a direction whose block sums vanish. The block
// mean of g is removed first: d sums to zero only up to round-off, and
// that residue times the mean would swamp ⟨g,d⟩ once d is small.
func slope(g, d []float64, blocks model.Partition) float64 {
	var gd float64
	for _, block := range blocks {
		var mean float64
		for _, i := range block {
			mean += g[i]
		}
		mean /= float64(len(block))
		for _, i := range block {
			gd += (g[i] - mean) * d[i]
		}
	}
	return gd
}

// maxStep returns the largest α keeping x + αd ≥ 0. It is +Inf when no
// coordinate decreases.
func maxStep(x, d []float64) float64 {
	step := math.Inf(1)
	for i, di := range d {
		if di < 0 {
			step = math.Min(step, -x[i]/di)
		}
	}
	return math.Max(step, 0)
}

// exactSearch minimizes the quadratic along d:
//
//	f(x + αd) = f(x) + α⟨g,d⟩ + α²⟨d,Qd⟩
//
// so α* = -⟨g,d⟩ / 2⟨d,Qd⟩, clipped to amax. Without curvature the step runs
// to the boundary.
type exactSearch struct{}

func (exactSearch) step(p *model.Problem, w *workspace, amax float64) (float64, error) {
	if w.gd >= 0 {
		return 0, fmt.Errorf("directional derivative %g is not negative: %w", w.gd, ErrLineSearch)
	}

	p.Q.MulVecTo(w.qd, w.d)
	curv := 2 * floats.Dot(w.d, w.qd)
	if curv <= flatCurvature*floats.Dot(w.d, w.d) {
		if math.IsInf(amax, 1) {
			return 0, fmt.Errorf("curvature %g: %w", curv, ErrUnboundedStep)
		}
		return amax, nil
	}
	return math.Min(-w.gd/curv, amax), nil
}

// armijoSearch backtracks from min(step, amax) by shrink until
//
//	f(x + αd) ≤ f(x) + α·decrease·⟨g,d⟩
//
// f being quadratic, f(x + αd) - f(x) is evaluated as α⟨g,d⟩ + α²⟨d,Qd⟩.
type armijoSearch struct {
	step0    float64
	shrink   float64
	decrease float64
}

func (s armijoSearch) step(p *model.Problem, w *workspace, amax float64) (float64, error) {
	gd := w.gd
	if gd >= 0 {
		return 0, fmt.Errorf("directional derivative %g is not negative: %w", gd, ErrLineSearch)
	}

	alpha := math.Min(s.step0, amax)
	if math.IsInf(alpha, 1) {
		return 0, fmt.Errorf("initial step: %w", ErrUnboundedStep)
	}
	p.Q.MulVecTo(w.qd, w.d)
	dqd := floats.Dot(w.d, w.qd)
	for {
		if alpha*gd+alpha*alpha*dqd <= alpha*s.decrease*gd {
			return alpha, nil
		}
		alpha *= s.shrink
		if alpha < minArmijoStep {
			return 0, fmt.Errorf("no sufficient decrease above step %g: %w", minArmijoStep, ErrLineSearch)
		}
	}
}
