// Package simplex projects vectors onto the unit simplex {p ≥ 0 : Σpᵢ = 1}
// and onto products of simplices described by a block partition.
package simplex

import (
	"fmt"
	"math"
	"slices"
)

// onSimplexTol is the absolute tolerance under which an input already on the
// simplex is returned unchanged.
const onSimplexTol = 1e-12

// Method selects the single-simplex projection algorithm.
type Method int

const (
	// Sorting sorts the input, O(m log m).
	Sorting Method = iota
	// Michelot shrinks an active set until it stabilizes, expected O(m).
	Michelot
)

func (m Method) String() string {
	switch m {
	case Sorting:
		return "sort"
	case Michelot:
		return "michelot"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Project dispatches to ProjectSort or ProjectMichelot.
func (m Method) Project(dst, v []float64) []float64 {
	if m == Michelot {
		return ProjectMichelot(dst, v)
	}
	return ProjectSort(dst, v)
}

// OnSimplex reports whether |Σvᵢ - 1| ≤ atol + rtol and vᵢ ≥ -atol for all i.
func OnSimplex(v []float64, atol, rtol float64) bool {
	var sum float64
	for _, x := range v {
		if x < -atol || math.IsNaN(x) {
			return false
		}
		sum += x
	}
	return math.Abs(sum-1) <= atol+rtol
}

// ProjectSort stores in dst the Euclidean projection of v onto the unit simplex and
// returns it. dst is reallocated when too short and may alias v.
//
// With u the entries of v sorted descending and cₖ = u₁+…+uₖ, the threshold
// is θ = (c_ρ - 1)/ρ where ρ is the largest k with uₖ > (cₖ - 1)/k; the
// projection is max(v - θ, 0).
func ProjectSort(dst, v []float64) []float64 {
	dst = resize(dst, len(v))
	if len(v) == 0 {
		return dst
	}
	if OnSimplex(v, onSimplexTol, 0) {
		copy(dst, v)
		return dst
	}

	u := slices.Clone(v)
	slices.Sort(u)

	var c, theta float64
	m := len(u)
	for k := 1; k <= m; k++ {
		uk := u[m-k]
		c += uk
		if t := (c - 1) / float64(k); uk > t {
			theta = t
		}
	}

	for i, x := range v {
		dst[i] = math.Max(x-theta, 0)
	}
	return dst
}

// ProjectMichelot stores in dst the Euclidean projection of v onto the unit simplex
// and returns it. dst is reallocated when too short and may alias v.
//
// Starting from all coordinates, ρ = (Σ_{i∈I} vᵢ - 1)/|I| is recomputed and I
// shrunk to {i ∈ I : vᵢ > ρ} until I stops changing. I never grows and always
// keeps the largest entry, so the loop ends after at most m passes.
func ProjectMichelot(dst, v []float64) []float64 {
	dst = resize(dst, len(v))
	if len(v) == 0 {
		return dst
	}
	if OnSimplex(v, onSimplexTol, 0) {
		copy(dst, v)
		return dst
	}

	active := make([]int, len(v))
	for i := range active {
		active[i] = i
	}

	var rho float64
	for {
		var sum float64
		for _, i := range active {
			sum += v[i]
		}
		rho = (sum - 1) / float64(len(active))

		size := len(active)
		kept := active[:0]
		for _, i := range active {
			if v[i] > rho {
				kept = append(kept, i)
			}
		}
		if len(kept) == size {
			break
		}
		active = kept
	}

	for i, x := range v {
		dst[i] = math.Max(x-rho, 0)
	}
	return dst
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
