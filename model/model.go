package model

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Default tolerances of the feasibility test.
const (
	AbsTol = 1e-12
	RelTol = 1e-5
)

// Problem is the quadratic program
//
//	min xᵀQx + qᵀx  s.t.  Σ_{i∈B} xᵢ = 1 for every block B, x ≥ 0
//
// A Problem is immutable once built and may be shared by concurrent solves.
type Problem struct {
	//Q quadratic coefficients
	Q Operator

	//q linear coefficients
	q []float64

	//blocks the simplex partition
	blocks Partition

	NumVars   int
	NumBlocks int
}

// New validates Q, q and the partition and returns the problem. q and p are
// copied; Q is kept by reference and must not be mutated afterward.
func New(Q Operator, q []float64, p Partition) (*Problem, error) {
	if Q == nil {
		return nil, fmt.Errorf("nil coefficient matrix: %w", ErrDimensionMismatch)
	}
	r, c := Q.Dims()
	if r != c {
		return nil, fmt.Errorf("Q is %dx%d: %w", r, c, ErrNotSquare)
	}
	n := r
	if len(q) != n {
		return nil, fmt.Errorf("q has %d entries, Q is %dx%d: %w", len(q), n, n, ErrDimensionMismatch)
	}
	for i, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("q[%d]: %w", i, ErrNotFinite)
		}
	}
	if err := p.Validate(n); err != nil {
		return nil, err
	}

	return &Problem{
		Q:         Q,
		q:         slices.Clone(q),
		blocks:    p.Clone(),
		NumVars:   n,
		NumBlocks: len(p),
	}, nil
}

// Linear returns a copy of the linear term q.
func (p *Problem) Linear() []float64 {
	return slices.Clone(p.q)
}

// Blocks returns the partition. The result is shared with p and must be
// treated as read-only.
func (p *Problem) Blocks() Partition {
	return p.blocks
}

// F returns xᵀQx + qᵀx.
func (p *Problem) F(x []float64) float64 {
	return p.Q.Quad(x) + floats.Dot(p.q, x)
}

// Grad returns 2Qx + q in a new slice.
func (p *Problem) Grad(x []float64) []float64 {
	g := make([]float64, p.NumVars)
	p.GradTo(g, x)
	return g
}

// GradTo stores 2Qx + q in dst.
func (p *Problem) GradTo(dst, x []float64) {
	p.Q.MulVecTo(dst, x)
	floats.Scale(2, dst)
	floats.Add(dst, p.q)
}

// IsFeasible reports whether every block of x sums to one within atol+rtol
// and no coordinate is below -atol.
func (p *Problem) IsFeasible(x []float64, atol, rtol float64) bool {
	if len(x) != p.NumVars {
		return false
	}
	for _, v := range x {
		if v < -atol || math.IsNaN(v) {
			return false
		}
	}
	for _, block := range p.blocks {
		var sum float64
		for _, i := range block {
			sum += x[i]
		}
		if math.Abs(sum-1) > atol+rtol {
			return false
		}
	}
	return true
}
