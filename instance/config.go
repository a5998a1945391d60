package instance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"q.log/qpsimplex/solver"
)

// configFile is the YAML layout of a solver configuration. Absent keys keep
// the value of solver.DefaultConfig.
type configFile struct {
	MaxIterations int     `yaml:"max_iterations"`
	ConstraintTol float64 `yaml:"constraint_tol"`
	RelTol        float64 `yaml:"rel_tol"`
	Tolerance     float64 `yaml:"tolerance"`
	Step          float64 `yaml:"step"`
	Shrink        float64 `yaml:"shrink"`
	Decrease      float64 `yaml:"decrease"`
	Direction     string  `yaml:"direction"`
	Projector     string  `yaml:"projector"`
	Search        string  `yaml:"search"`
	Stop          string  `yaml:"stop"`
	Newton        bool    `yaml:"newton"`
	Trace         bool    `yaml:"trace"`
}

// ReadConfig reads a YAML solver configuration from path.
func ReadConfig(path string) (solver.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return solver.Config{}, err
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return solver.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads a YAML solver configuration. Unknown keys and unknown
// strategy names are errors.
//
//	max_iterations: 500
//	tolerance: 1e-8
//	direction: kkt
//	newton: true
func DecodeConfig(r io.Reader) (solver.Config, error) {
	def := solver.DefaultConfig()
	cf := configFile{
		MaxIterations: def.MaxIterations,
		ConstraintTol: def.ConstraintTol,
		RelTol:        def.RelTol,
		Tolerance:     def.Tolerance,
		Step:          def.Step,
		Shrink:        def.Shrink,
		Decrease:      def.Decrease,
		Direction:     def.Direction.String(),
		Projector:     def.Projector.String(),
		Search:        def.Search.String(),
		Stop:          def.Stop.String(),
		Newton:        def.Newton,
		Trace:         def.Trace,
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return solver.Config{}, fmt.Errorf("%v: %w", err, ErrFormat)
	}

	cfg := solver.Config{
		MaxIterations: cf.MaxIterations,
		ConstraintTol: cf.ConstraintTol,
		RelTol:        cf.RelTol,
		Tolerance:     cf.Tolerance,
		Step:          cf.Step,
		Shrink:        cf.Shrink,
		Decrease:      cf.Decrease,
		Newton:        cf.Newton,
		Trace:         cf.Trace,
	}
	var err error
	if cfg.Direction, err = solver.ParseDirection(cf.Direction); err != nil {
		return solver.Config{}, err
	}
	if cfg.Projector, err = solver.ParseProjector(cf.Projector); err != nil {
		return solver.Config{}, err
	}
	if cfg.Search, err = solver.ParseSearch(cf.Search); err != nil {
		return solver.Config{}, err
	}
	if cfg.Stop, err = solver.ParseStop(cf.Stop); err != nil {
		return solver.Config{}, err
	}
	return cfg, nil
}
