package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"q.log/qpsimplex/model"
)

// kktDirection solves the KKT system of the direction-finding subproblem
//
//	min ½ dᵀHd + gᵀd  s.t.  Ād = 0
//
//	⎡ H  Āᵀ ⎤ ⎡ d ⎤   ⎡ -g ⎤
//	⎣ Ā  0  ⎦ ⎣ y ⎦ = ⎣  0 ⎦
//
// where H is I, or the Hessian 2Q when newton is set, and Ā stacks the block
// incidence rows and a unit row eᵢ for every active coordinate. With H = I
// the solution is the Euclidean projection of -g onto the null space of Ā.
//
// aug is reused as storage for the augmented matrix; d receives the result.
func kktDirection(p *model.Problem, g []float64, active []bool, newton bool, aug *mat.Dense, d []float64) error {
	n, k := p.NumVars, p.NumBlocks
	na := 0
	for _, a := range active {
		if a {
			na++
		}
	}
	size := n + k + na

	aug.Reset()
	aug.ReuseAs(size, size)
	if newton {
		p.Q.DoNonZero(func(i, j int, v float64) {
			aug.Set(i, j, 2*v)
		})
	} else {
		for i := range n {
			aug.Set(i, i, 1)
		}
	}
	for b, block := range p.Blocks() {
		for _, i := range block {
			aug.Set(n+b, i, 1)
			aug.Set(i, n+b, 1)
		}
	}
	row := n + k
	for i, a := range active {
		if a {
			aug.Set(row, i, 1)
			aug.Set(i, row, 1)
			row++
		}
	}

	rhs := mat.NewVecDense(size, nil)
	for i := range n {
		rhs.SetVec(i, -g[i])
	}

	var lu mat.LU
	lu.Factorize(aug)
	if cond := lu.Cond(); !(cond <= mat.ConditionTolerance) {
		return fmt.Errorf("%dx%d system with condition number %g: %w", size, size, cond, ErrSingularSystem)
	}
	var sol mat.VecDense
	if err := lu.SolveVecTo(&sol, false, rhs); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	for i := range n {
		if active[i] {
			d[i] = 0
		} else {
			d[i] = sol.AtVec(i)
		}
	}
	return nil
}
