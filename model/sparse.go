package model

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sparse is an Operator stored in compressed sparse row form.
//
// Row i holds its column indices in ind[indptr[i]:indptr[i+1]], sorted
// ascending, with matching values in data.
type Sparse struct {
	n      int
	indptr []int
	ind    []int
	data   []float64
}

type entry struct {
	col int
	val float64
}

// NewSparse builds an n×n sparse operator from coordinate triplets
// (rows[k], cols[k], vals[k]). Repeated coordinates are summed and only the
// symmetric part of the assembled matrix is kept.
func NewSparse(n int, rows, cols []int, vals []float64) (*Sparse, error) {
	if n <= 0 || len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, fmt.Errorf("sparse operator with n=%d and %d/%d/%d triplets: %w",
			n, len(rows), len(cols), len(vals), ErrDimensionMismatch)
	}

	buckets := make([][]entry, n)
	for k := range rows {
		i, j, v := rows[k], cols[k], vals[k]
		if i < 0 || i >= n || j < 0 || j >= n {
			return nil, fmt.Errorf("sparse operator triplet %d at (%d,%d): %w", k, i, j, ErrDimensionMismatch)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("sparse operator triplet %d at (%d,%d): %w", k, i, j, ErrNotFinite)
		}
		if v == 0 {
			continue
		}
		h := v / 2
		buckets[i] = append(buckets[i], entry{j, h})
		buckets[j] = append(buckets[j], entry{i, h})
	}

	s := &Sparse{n: n, indptr: make([]int, n+1)}
	for i, row := range buckets {
		slices.SortStableFunc(row, func(a, b entry) int { return cmp.Compare(a.col, b.col) })
		start := len(s.ind)
		for _, e := range row {
			if last := len(s.ind) - 1; last >= start && s.ind[last] == e.col {
				s.data[last] += e.val
				continue
			}
			s.ind = append(s.ind, e.col)
			s.data = append(s.data, e.val)
		}
		s.indptr[i+1] = len(s.ind)
	}
	return s, nil
}

// SparseOf converts any square matrix to a sparse operator, dropping zeros.
func SparseOf(q mat.Matrix) (*Sparse, error) {
	r, c := q.Dims()
	if r != c {
		return nil, fmt.Errorf("sparse operator %dx%d: %w", r, c, ErrNotSquare)
	}
	var rows, cols []int
	var vals []float64
	for i := range r {
		for j := range c {
			if v := q.At(i, j); v != 0 {
				rows = append(rows, i)
				cols = append(cols, j)
				vals = append(vals, v)
			}
		}
	}
	return NewSparse(r, rows, cols, vals)
}

func (s *Sparse) Dims() (r, c int) { return s.n, s.n }

func (s *Sparse) SymmetricDim() int { return s.n }

// T returns s itself, Q being symmetric.
func (s *Sparse) T() mat.Matrix { return s }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.ind) }

func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	k := lo + sort.SearchInts(s.ind[lo:hi], j)
	if k < hi && s.ind[k] == j {
		return s.data[k]
	}
	return 0
}

func (s *Sparse) MulVecTo(dst, x []float64) {
	if len(dst) != s.n || len(x) != s.n {
		panic(mat.ErrShape)
	}
	for i := range s.n {
		var sum float64
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			sum += s.data[k] * x[s.ind[k]]
		}
		dst[i] = sum
	}
}

func (s *Sparse) Quad(x []float64) float64 {
	if len(x) != s.n {
		panic(mat.ErrShape)
	}
	var quad float64
	for i := range s.n {
		var sum float64
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			sum += s.data[k] * x[s.ind[k]]
		}
		quad += x[i] * sum
	}
	return quad
}

func (s *Sparse) DoNonZero(fn func(i, j int, v float64)) {
	for i := range s.n {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			if s.data[k] != 0 {
				fn(i, s.ind[k], s.data[k])
			}
		}
	}
}
