package solver

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/simplex"
)

// workspace is the private state of one Solve call.
type workspace struct {
	x, g, d []float64
	trial   []float64 // projected point
	qd      []float64 // Q·d
	gd      float64   // ⟨g,d⟩
	active  []bool
	aug     mat.Dense // KKT matrix, reused across iterations
}

func newWorkspace(n int) *workspace {
	buf := make([]float64, 5*n)
	return &workspace{
		x:      buf[0*n : 1*n],
		g:      buf[1*n : 2*n],
		d:      buf[2*n : 3*n],
		trial:  buf[3*n : 4*n],
		qd:     buf[4*n : 5*n],
		active: make([]bool, n),
	}
}

// director fills w.d from w.x, w.g and w.active.
type director interface {
	direction(p *model.Problem, w *workspace) error
}

type activeSetDirector struct{}

func (activeSetDirector) direction(p *model.Problem, w *workspace) error {
	simplex.ReducedGradient(w.d, w.g, w.active, p.Blocks())
	return nil
}

type projectedDirector struct {
	method simplex.Method
	step   float64
}

func (pd projectedDirector) direction(p *model.Problem, w *workspace) error {
	floats.AddScaledTo(w.trial, w.x, -pd.step, w.g)
	simplex.ProjectBlocks(w.trial, w.trial, p.Blocks(), pd.method)
	floats.SubTo(w.d, w.trial, w.x)
	return nil
}

type kktDirector struct {
	newton bool
}

func (kd kktDirector) direction(p *model.Problem, w *workspace) error {
	return kktDirection(p, w.g, w.active, kd.newton, &w.aug, w.d)
}

// markActive flags the coordinates at their lower bound and returns their count.
func markActive(x []float64, tol float64, active []bool) int {
	count := 0
	for i, v := range x {
		active[i] = v <= tol
		if active[i] {
			count++
		}
	}
	return count
}

// release frees, in every block, the active coordinate whose gradient lies
// furthest below the mean gradient of the free coordinates, i.e. whose bound
// multiplier is negative. It returns the number of freed coordinates.
func release(blocks model.Partition, g []float64, active []bool, tol float64) int {
	freed := 0
	for _, block := range blocks {
		var sum float64
		free := 0
		cand := -1
		for _, i := range block {
			if !active[i] {
				sum += g[i]
				free++
			} else if cand < 0 || g[i] < g[cand] {
				cand = i
			}
		}
		if cand < 0 || free == 0 {
			continue
		}
		if g[cand] < sum/float64(free)-tol {
			active[cand] = false
			freed++
		}
	}
	return freed
}
