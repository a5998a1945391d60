package instance

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"

	"q.log/qpsimplex/model"
)

// Instance is a randomly generated problem.
type Instance struct {
	Q      *mat.SymDense
	Linear []float64
	Blocks model.Partition
}

// Generate returns a random instance with n variables split into k blocks.
//
// Q is positive semidefinite with eccentricity
//
//	(λmax - λmin) / (λmax + λmin) = ecc,  0 ≤ ecc < 1
//
// obtained from MᵀM, M uniform in [0,1)ⁿˣⁿ, by stretching its spectrum
// affinely while keeping λmin and the eigenvectors. q is uniform in [0,1)ⁿ
// and the blocks are a random partition of a shuffled index set. The same
// seed gives the same instance.
func Generate(n, k int, ecc float64, seed uint64) (*Instance, error) {
	switch {
	case n <= 0:
		return nil, fmt.Errorf("n = %d must be positive: %w", n, ErrArgument)
	case k <= 0 || k > n:
		return nil, fmt.Errorf("k = %d must be in [1,%d]: %w", k, n, ErrArgument)
	case !(ecc >= 0 && ecc < 1):
		return nil, fmt.Errorf("eccentricity %g must be in [0,1): %w", ecc, ErrArgument)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	Q, err := randomQuad(rng, n, ecc)
	if err != nil {
		return nil, err
	}

	q := make([]float64, n)
	for i := range q {
		q[i] = rng.Float64()
	}

	return &Instance{
		Q:      Q,
		Linear: q,
		Blocks: randomPartition(rng, n, k),
	}, nil
}

// Problem builds the model of the instance, with a sparse Q backend when
// sparse is set.
func (in *Instance) Problem(sparse bool) (*model.Problem, error) {
	var (
		op  model.Operator
		err error
	)
	if sparse {
		op, err = model.SparseOf(in.Q)
	} else {
		op, err = model.NewDense(in.Q)
	}
	if err != nil {
		return nil, err
	}
	return model.New(op, in.Linear, in.Blocks)
}

// Write stores the instance under base, see WriteProblem.
func (in *Instance) Write(base string) error {
	return WriteProblem(base, in.Q, in.Linear, in.Blocks)
}

func randomQuad(rng *rand.Rand, n int, ecc float64) (*mat.SymDense, error) {
	m := mat.NewDense(n, n, nil)
	for i := range n {
		for j := range n {
			m.Set(i, j, rng.Float64())
		}
	}
	var mtm mat.SymDense
	mtm.SymOuterK(1, m.T())

	var es mat.EigenSym
	if ok := es.Factorize(&mtm, true); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition of the %dx%d generator matrix failed", model.ErrNumerical, n, n)
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Values are ascending.
	lo, hi := vals[0], vals[n-1]
	r := 2 * ecc / (1 - ecc)
	lambda := make([]float64, n)
	for i, v := range vals {
		lambda[i] = lo
		if hi > lo {
			lambda[i] += lo / (hi - lo) * r * (v - lo)
		}
	}

	// Q = V·diag(λ)·Vᵀ
	var vl, full mat.Dense
	vl.Apply(func(_, j int, v float64) float64 { return v * lambda[j] }, &vecs)
	full.Mul(&vl, vecs.T())

	Q := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			Q.SetSym(i, j, (full.At(i, j)+full.At(j, i))/2)
		}
	}
	return Q, nil
}

// randomPartition shuffles 0..n-1 and cuts it into k non-empty runs.
func randomPartition(rng *rand.Rand, n, k int) model.Partition {
	idx := rng.Perm(n)

	cuts := rng.Perm(n - 1)[:k-1]
	for i := range cuts {
		cuts[i]++
	}
	slices.Sort(cuts)
	cuts = append(cuts, n)

	p := make(model.Partition, k)
	low := 0
	for b, high := range cuts {
		p[b] = slices.Clone(idx[low:high])
		slices.Sort(p[b])
		low = high
	}
	return p
}
