package solver

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/simplex"
)

// Status is the terminal state of a solve.
type Status int

const (
	// Converged the stopping test held.
	Converged Status = iota
	// MaxIterReached the iteration cap was hit first.
	MaxIterReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max iterations reached"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result of a solve.
type Result struct {
	//X final point
	X []float64
	//F objective value at X
	F float64
	//G gradient at X
	G []float64

	Iterations int
	Status     Status
	// Feasible is X checked with ConstraintTol and RelTol.
	Feasible bool
	// History holds f(x₀), f(x₁), ... when Config.Trace is set.
	History []float64
	Elapsed time.Duration
}

// Solver runs the projected-gradient method for one problem and one
// configuration. It is immutable after New and may be shared by goroutines.
type Solver struct {
	problem *model.Problem
	cfg     Config
	stop    Stop
	dir     director
	search  searcher
}

// New validates cfg and binds it to p.
func New(p *model.Problem, cfg Config) (*Solver, error) {
	if p == nil {
		return nil, fmt.Errorf("nil problem: %w", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Solver{problem: p, cfg: cfg, stop: cfg.stopTest()}
	switch cfg.Direction {
	case ActiveSet:
		s.dir = activeSetDirector{}
	case ProjectedStep:
		s.dir = projectedDirector{method: cfg.Projector, step: cfg.Step}
	case KKT:
		s.dir = kktDirector{newton: cfg.Newton}
	}
	switch cfg.Search {
	case Exact:
		s.search = exactSearch{}
	case Armijo:
		s.search = armijoSearch{step0: cfg.Step, shrink: cfg.Shrink, decrease: cfg.Decrease}
	}
	return s, nil
}

// Solve is a shorthand for New followed by (*Solver).Solve.
func Solve(p *model.Problem, x0 []float64, cfg Config) (*Result, error) {
	s, err := New(p, cfg)
	if err != nil {
		return nil, err
	}
	return s.Solve(x0)
}

// Config returns a copy of the solver configuration.
func (s *Solver) Config() Config { return s.cfg }

// Solve iterates from x0, or from the centroid of every block when x0 is nil.
// An infeasible x0 is replaced by its projection. x0 is not modified.
func (s *Solver) Solve(x0 []float64) (*Result, error) {
	p, cfg, log := s.problem, &s.cfg, s.cfg.Logger
	n := p.NumVars

	if x0 == nil {
		x0 = p.InitialPoint()
	}
	if len(x0) != n {
		return nil, fmt.Errorf("x0 has %d entries, want %d: %w", len(x0), n, model.ErrDimensionMismatch)
	}
	for i, v := range x0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("x0[%d]: %w", i, model.ErrNotFinite)
		}
	}

	start := time.Now()
	w := newWorkspace(n)
	copy(w.x, x0)
	if !p.IsFeasible(w.x, cfg.ConstraintTol, cfg.RelTol) {
		simplex.ProjectBlocks(w.x, w.x, p.Blocks(), cfg.Projector)
		if log.enable(LogLast) {
			log.log("The initial x is infeasible. Restart with its projection.\n")
		}
	}

	fx := p.F(w.x)
	var history []float64
	if cfg.Trace {
		history = make([]float64, 1, min(cfg.MaxIterations, 1024)+1)
		history[0] = fx
	}
	if log.enable(LogEval) {
		log.log("N = %d    K = %d    direction = %v    search = %v    stop = %v\n",
			n, p.NumBlocks, cfg.Direction, cfg.Search, s.stop)
		log.log("At iterate %5d    f = %-14.8g\n", 0, fx)
	}

	faces := cfg.Direction != ProjectedStep
	status := MaxIterReached
	iter := 0
	for ; iter < cfg.MaxIterations; iter++ {
		p.GradTo(w.g, w.x)
		if faces {
			na := markActive(w.x, cfg.ConstraintTol, w.active)
			if log.enable(LogTrace) {
				log.log("  %d active bounds\n", na)
			}
		}
		if err := s.dir.direction(p, w); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
		}

		done, measure := s.converged(p, w)
		if done && faces {
			// Stationary on the current face: leave it through any bound
			// with a negative multiplier.
			if freed := release(p.Blocks(), w.g, w.active, cfg.Tolerance); freed > 0 {
				if log.enable(LogTrace) {
					log.log("  released %d bounds\n", freed)
				}
				if err := s.dir.direction(p, w); err != nil {
					return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
				}
				done, measure = s.converged(p, w)
			}
		}
		if done {
			status = Converged
			break
		}

		amax := maxStep(w.x, w.d)
		alpha, err := s.search.step(p, w, amax)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
		}
		if log.enable(LogTrace) {
			log.log("  alpha = %-10.4g  alpha max = %-10.4g\n", alpha, amax)
		}

		floats.AddScaled(w.x, alpha, w.d)
		for i, v := range w.x {
			// round-off at the blocking bound
			if v < 0 && v > -cfg.ConstraintTol {
				w.x[i] = 0
			}
		}
		fx = p.F(w.x)
		if cfg.Trace {
			history = append(history, fx)
		}
		if log.enable(LogEval) {
			log.log("At iterate %5d    f = %-14.8g    %v = %-10.4g\n", iter+1, fx, s.stop, measure)
		}
	}

	p.GradTo(w.g, w.x)
	res := &Result{
		X:          w.x,
		F:          fx,
		G:          w.g,
		Iterations: iter,
		Status:     status,
		Feasible:   p.IsFeasible(w.x, cfg.ConstraintTol, cfg.RelTol),
		History:    history,
		Elapsed:    time.Since(start),
	}
	if log.enable(LogLast) {
		log.log("%v after %d iterations, f = %.12g, feasible = %t, %v\n",
			res.Status, res.Iterations, res.F, res.Feasible, res.Elapsed)
	}
	return res, nil
}

// converged sets w.gd, applies the stopping test to w.d and returns the
// measured value. A direction along which f does not decrease is stationary
// whatever the test says: its slope is round-off.
func (s *Solver) converged(p *model.Problem, w *workspace) (bool, float64) {
	w.gd = slope(w.g, w.d, p.Blocks())
	ok, measure := s.stopTest(w)
	return ok || w.gd >= 0, measure
}

func (s *Solver) stopTest(w *workspace) (bool, float64) {
	tol := s.cfg.Tolerance
	switch s.stop {
	case FixedPoint:
		ok := true
		var worst float64
		for i, di := range w.d {
			a := math.Abs(di)
			worst = math.Max(worst, a)
			if a > tol+s.cfg.RelTol*math.Abs(w.x[i]+di) {
				ok = false
			}
		}
		return ok, worst
	case Orthogonality:
		gd := math.Abs(w.gd)
		return gd <= tol, gd
	}
	nd := floats.Norm(w.d, 2)
	return nd <= tol, nd
}
