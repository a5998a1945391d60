package instance

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/solver"
)

// Report is the YAML layout written by WriteResult.
type Report struct {
	Status     string        `yaml:"status"`
	Value      float64       `yaml:"value"`
	Iterations int           `yaml:"iterations"`
	Feasible   bool          `yaml:"feasible"`
	Elapsed    string        `yaml:"elapsed"`
	Blocks     []BlockReport `yaml:"blocks"`
	Solution   []float64     `yaml:"solution,flow"`
	History    []float64     `yaml:"history,omitempty,flow"`
}

// BlockReport summarizes the solution restricted to one block.
type BlockReport struct {
	Sum     float64 `yaml:"sum"`
	Support []int   `yaml:"support,flow"`
}

// NewReport summarizes res for problem p. Support lists the coordinates of
// each block above the solver's constraint tolerance.
func NewReport(p *model.Problem, res *solver.Result, ctol float64) *Report {
	rep := &Report{
		Status:     res.Status.String(),
		Value:      res.F,
		Iterations: res.Iterations,
		Feasible:   res.Feasible,
		Elapsed:    res.Elapsed.String(),
		Solution:   res.X,
		History:    res.History,
	}
	for _, block := range p.Blocks() {
		var br BlockReport
		for _, i := range block {
			br.Sum += res.X[i]
			if res.X[i] > ctol {
				br.Support = append(br.Support, i)
			}
		}
		rep.Blocks = append(rep.Blocks, br)
	}
	return rep
}

// WriteResult writes the YAML report of res to w. ctol is the support
// threshold and should be the ConstraintTol of the solve.
func WriteResult(w io.Writer, p *model.Problem, res *solver.Result, ctol float64) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(p, res, ctol)); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}
