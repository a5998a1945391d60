package solver

import (
	"fmt"
	"math"
	"strings"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/simplex"
)

// Direction selects how the search direction is computed.
type Direction int

const (
	// ActiveSet projects -g onto the face of the active bounds, block by block.
	ActiveSet Direction = iota
	// ProjectedStep uses d = P(x - Step·g) - x with P the block projection.
	ProjectedStep
	// KKT solves the equality-constrained subproblem's KKT system.
	KKT
)

// Search selects the line-search policy.
type Search int

const (
	// Exact minimizes f along d in closed form, clipped to the feasible step.
	Exact Search = iota
	// Armijo backtracks from Step until sufficient decrease holds.
	Armijo
)

// Stop selects the stopping test.
type Stop int

const (
	// StopAuto picks DirectionNorm for ActiveSet, FixedPoint for
	// ProjectedStep and Orthogonality for KKT.
	StopAuto Stop = iota
	// DirectionNorm stops when ‖d‖₂ ≤ Tolerance.
	DirectionNorm
	// FixedPoint stops when x + d equals x within Tolerance + RelTol·|x+d|.
	FixedPoint
	// Orthogonality stops when |⟨g,d⟩| ≤ Tolerance.
	Orthogonality
)

var (
	directionNames = []string{"active", "projected", "kkt"}
	searchNames    = []string{"exact", "armijo"}
	stopNames      = []string{"auto", "norm", "fixed", "orthogonal"}
)

func (d Direction) String() string { return enumName(directionNames, int(d), "Direction") }
func (s Search) String() string    { return enumName(searchNames, int(s), "Search") }
func (s Stop) String() string      { return enumName(stopNames, int(s), "Stop") }

// ParseDirection maps "active", "projected" or "kkt" to a Direction.
func ParseDirection(s string) (Direction, error) {
	i, err := parseEnum(directionNames, s, "direction")
	return Direction(i), err
}

// ParseSearch maps "exact" or "armijo" to a Search.
func ParseSearch(s string) (Search, error) {
	i, err := parseEnum(searchNames, s, "search")
	return Search(i), err
}

// ParseStop maps "auto", "norm", "fixed" or "orthogonal" to a Stop.
func ParseStop(s string) (Stop, error) {
	i, err := parseEnum(stopNames, s, "stop")
	return Stop(i), err
}

// ParseProjector maps "sort" or "michelot" to a simplex.Method.
func ParseProjector(s string) (simplex.Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case simplex.Sorting.String():
		return simplex.Sorting, nil
	case simplex.Michelot.String():
		return simplex.Michelot, nil
	}
	return 0, fmt.Errorf("unknown projector %q: %w", s, ErrInvalidConfig)
}

func enumName(names []string, i int, kind string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", kind, i)
}

func parseEnum(names []string, s, kind string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q, want one of %s: %w", kind, s, strings.Join(names, "|"), ErrInvalidConfig)
}

// Config selects the algorithm and its tolerances.
type Config struct {
	// The iteration stop when the number of iterations reaches the limit.
	MaxIterations int
	// Coordinates xᵢ ≤ ConstraintTol are active. Also the absolute part of
	// the feasibility test.
	ConstraintTol float64
	// Relative part of the feasibility and fixed-point tests; 0 disables it.
	RelTol float64
	// Optimality tolerance of the stopping test.
	Tolerance float64

	// Step is the gradient scale of ProjectedStep and the initial Armijo step.
	Step float64
	// Shrink is the Armijo contraction factor τ ∈ (0,1).
	Shrink float64
	// Decrease is the Armijo sufficient decrease constant β ∈ (0,1).
	Decrease float64

	Direction Direction
	Projector simplex.Method
	Search    Search
	Stop      Stop

	// Newton puts the Hessian 2Q instead of I in the KKT system.
	Newton bool
	// Trace records f(x) at every iteration in Result.History.
	Trace bool

	Logger *Logger
}

// DefaultConfig returns the active-set method with exact line search.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 1000,
		ConstraintTol: model.AbsTol,
		RelTol:        model.RelTol,
		Tolerance:     1e-9,
		Step:          1,
		Shrink:        0.5,
		Decrease:      1e-4,
		Direction:     ActiveSet,
		Projector:     simplex.Sorting,
		Search:        Exact,
		Stop:          StopAuto,
	}
}

// stopTest resolves StopAuto for the configured direction.
func (c *Config) stopTest() Stop {
	if c.Stop != StopAuto {
		return c.Stop
	}
	switch c.Direction {
	case ProjectedStep:
		return FixedPoint
	case KKT:
		return Orthogonality
	}
	return DirectionNorm
}

func (c *Config) validate() (err error) {
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	open01 := func(v float64) bool { return v > 0 && v < 1 }

	switch {
	case c.MaxIterations <= 0:
		err = fmt.Errorf("max iterations %d must be positive: %w", c.MaxIterations, ErrInvalidConfig)
	case !positive(c.ConstraintTol):
		err = fmt.Errorf("constraint tolerance %g must be positive: %w", c.ConstraintTol, ErrInvalidConfig)
	case !positive(c.Tolerance):
		err = fmt.Errorf("tolerance %g must be positive: %w", c.Tolerance, ErrInvalidConfig)
	case !(c.RelTol >= 0) || math.IsInf(c.RelTol, 0):
		err = fmt.Errorf("relative tolerance %g must not be negative: %w", c.RelTol, ErrInvalidConfig)
	case !positive(c.Step):
		err = fmt.Errorf("step %g must be positive: %w", c.Step, ErrInvalidConfig)
	case !open01(c.Shrink):
		err = fmt.Errorf("shrink factor %g must be in (0,1): %w", c.Shrink, ErrInvalidConfig)
	case !open01(c.Decrease):
		err = fmt.Errorf("decrease constant %g must be in (0,1): %w", c.Decrease, ErrInvalidConfig)
	case c.Direction < ActiveSet || c.Direction > KKT:
		err = fmt.Errorf("direction %v: %w", c.Direction, ErrInvalidConfig)
	case c.Projector != simplex.Sorting && c.Projector != simplex.Michelot:
		err = fmt.Errorf("projector %v: %w", c.Projector, ErrInvalidConfig)
	case c.Search < Exact || c.Search > Armijo:
		err = fmt.Errorf("search %v: %w", c.Search, ErrInvalidConfig)
	case c.Stop < StopAuto || c.Stop > Orthogonality:
		err = fmt.Errorf("stop %v: %w", c.Stop, ErrInvalidConfig)
	}
	return
}
