package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Operator is the numeric backend holding the quadratic coefficient matrix Q.
//
// Implementations store the symmetric part ½(Q + Qᵀ). The objective xᵀQx is
// unchanged by this, and 2Qx + q stays the exact gradient for any input.
// Operators are read-only once built and safe for concurrent use.
type Operator interface {
	mat.Symmetric

	// MulVecTo stores Q·x in dst. dst and x must not overlap.
	MulVecTo(dst, x []float64)

	// Quad returns the quadratic form xᵀQx.
	Quad(x []float64) float64

	// DoNonZero calls fn for every stored non-zero entry, both triangles,
	// in row-major order.
	DoNonZero(fn func(i, j int, v float64))
}

var (
	_ Operator = (*Dense)(nil)
	_ Operator = (*Sparse)(nil)
)

// Dense is an Operator backed by a gonum symmetric dense matrix.
type Dense struct {
	sym *mat.SymDense
}

// NewDense builds a dense operator from the symmetric part of q.
func NewDense(q mat.Matrix) (*Dense, error) {
	r, c := q.Dims()
	if r != c {
		return nil, fmt.Errorf("dense operator %dx%d: %w", r, c, ErrNotSquare)
	}

	sym := mat.NewSymDense(r, nil)
	for i := range r {
		for j := i; j < r; j++ {
			v := (q.At(i, j) + q.At(j, i)) / 2
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("dense operator at (%d,%d): %w", i, j, ErrNotFinite)
			}
			sym.SetSym(i, j, v)
		}
	}
	return &Dense{sym: sym}, nil
}

// NewDenseData builds a dense operator from n×n row-major data.
func NewDenseData(n int, data []float64) (*Dense, error) {
	if n <= 0 || len(data) != n*n {
		return nil, fmt.Errorf("dense operator with n=%d and %d values: %w", n, len(data), ErrDimensionMismatch)
	}
	return NewDense(mat.NewDense(n, n, data))
}

func (d *Dense) Dims() (r, c int) { return d.sym.Dims() }

func (d *Dense) At(i, j int) float64 { return d.sym.At(i, j) }

// T returns d itself, Q being symmetric.
func (d *Dense) T() mat.Matrix { return d }

func (d *Dense) SymmetricDim() int { return d.sym.SymmetricDim() }

func (d *Dense) String() string {
	return fmt.Sprintf("%v", mat.Formatted(d.sym, mat.Squeeze()))
}

func (d *Dense) Quad(x []float64) float64 {
	v := mat.NewVecDense(len(x), x)
	return mat.Inner(v, d.sym, v)
}

func (d *Dense) MulVecTo(dst, x []float64) {
	n := d.sym.SymmetricDim()
	mat.NewVecDense(n, dst).MulVec(d.sym, mat.NewVecDense(n, x))
}

func (d *Dense) DoNonZero(fn func(i, j int, v float64)) {
	n := d.sym.SymmetricDim()
	for i := range n {
		for j := range n {
			if v := d.sym.At(i, j); v != 0 {
				fn(i, j, v)
			}
		}
	}
}
