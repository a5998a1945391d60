package solver_test

import (
	"fmt"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/solver"
)

func ExampleSolve() {
	// min x₀² + x₁² + x₂² - 10x₀ + (x₃ - x₄)²  over two simplices
	Q, _ := model.NewDenseData(5, []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, -1,
		0, 0, 0, -1, 1,
	})
	p, err := model.New(Q, []float64{-10, 0, 0, 0, 0}, model.Partition{{0, 1, 2}, {3, 4}})
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := solver.Solve(p, nil, solver.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status)
	fmt.Printf("x = %.4f\n", res.X)
	fmt.Printf("f = %.4f\n", res.F)
	// Output:
	// converged
	// x = [1.0000 0.0000 0.0000 0.5000 0.5000]
	// f = -9.0000
}

func ExampleSolver_Solve() {
	Q, _ := model.NewDenseData(2, []float64{1, 0, 0, 2})
	p, _ := model.New(Q, []float64{0, 0}, model.Partition{{0, 1}})

	cfg := solver.DefaultConfig()
	cfg.Direction = solver.KKT
	cfg.Newton = true
	s, err := solver.New(p, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, x0 := range [][]float64{nil, {1, 0}} {
		res, err := s.Solve(x0)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("%.4f %.4f\n", res.X, res.F)
	}
	// Output:
	// [0.6667 0.3333] 0.6667
	// [0.6667 0.3333] 0.6667
}
