package model

import (
	"fmt"

	"gonum.org/v1/gonum/optimize/convex/lp"
)

// InitialPoint returns the centroid of every block, xᵢ = 1/|B|.
func (p *Problem) InitialPoint() []float64 {
	x := make([]float64, p.NumVars)
	for _, block := range p.blocks {
		v := 1 / float64(len(block))
		for _, i := range block {
			x[i] = v
		}
	}
	return x
}

// VertexPoint returns the vertex putting all the mass of each block on its
// first index.
func (p *Problem) VertexPoint() []float64 {
	x := make([]float64, p.NumVars)
	for _, block := range p.blocks {
		x[block[0]] = 1
	}
	return x
}

// LPPoint returns a vertex of the feasible set minimizing the linear term
// qᵀx, found by the simplex method on Ax = 1, x ≥ 0.
func (p *Problem) LPPoint() ([]float64, error) {
	b := make([]float64, p.NumBlocks)
	for i := range b {
		b[i] = 1
	}

	_, x, err := lp.Simplex(p.Linear(), p.blocks.Incidence(p.NumVars), b, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: lp start: %w", ErrNumerical, err)
	}
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
	return x, nil
}
