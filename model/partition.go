package model

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Partition is an ordered list of disjoint, non-empty index blocks whose
// union is {0, …, n-1}. Each block is constrained to its own unit simplex.
type Partition [][]int

// Validate reports whether p is a partition of {0, …, n-1}.
func (p Partition) Validate(n int) error {
	if n <= 0 {
		return fmt.Errorf("partition of %d indices: %w", n, ErrDimensionMismatch)
	}
	if len(p) == 0 {
		return fmt.Errorf("no blocks: %w", ErrPartition)
	}

	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	covered := 0
	for b, block := range p {
		if len(block) == 0 {
			return fmt.Errorf("block %d is empty: %w", b, ErrPartition)
		}
		for _, i := range block {
			if i < 0 || i >= n {
				return fmt.Errorf("block %d: index %d outside [0,%d): %w", b, i, n, ErrPartition)
			}
			if owner[i] >= 0 {
				return fmt.Errorf("index %d in blocks %d and %d: %w", i, owner[i], b, ErrPartition)
			}
			owner[i] = b
			covered++
		}
	}
	if covered != n {
		i := slices.Index(owner, -1)
		return fmt.Errorf("index %d not in any block: %w", i, ErrPartition)
	}
	return nil
}

// Clone returns a deep copy of p.
func (p Partition) Clone() Partition {
	c := make(Partition, len(p))
	for b, block := range p {
		c[b] = slices.Clone(block)
	}
	return c
}

// Incidence returns the k×n 0/1 matrix A whose row b has ones on block b.
// The constraints of the problem then read Ax = 1, x ≥ 0.
func (p Partition) Incidence(n int) *mat.Dense {
	a := mat.NewDense(len(p), n, nil)
	for b, block := range p {
		for _, i := range block {
			a.Set(b, i, 1)
		}
	}
	return a
}

// FromIncidence decodes a k×n 0/1 incidence matrix into a partition.
// Every column must hold exactly one 1 and every row at least one.
func FromIncidence(a mat.Matrix) (Partition, error) {
	k, n := a.Dims()
	p := make(Partition, k)
	for j := range n {
		owner := -1
		for b := range k {
			switch v := a.At(b, j); v {
			case 0:
			case 1:
				if owner >= 0 {
					return nil, fmt.Errorf("column %d in rows %d and %d: %w", j, owner, b, ErrPartition)
				}
				owner = b
			default:
				return nil, fmt.Errorf("entry (%d,%d) = %g is not 0/1: %w", b, j, v, ErrPartition)
			}
		}
		if owner < 0 {
			return nil, fmt.Errorf("column %d in no row: %w", j, ErrPartition)
		}
		p[owner] = append(p[owner], j)
	}
	for b, block := range p {
		if len(block) == 0 {
			return nil, fmt.Errorf("row %d is empty: %w", b, ErrPartition)
		}
	}
	return p, nil
}
