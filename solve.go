package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"q.log/qpsimplex/instance"
	"q.log/qpsimplex/model"
	"q.log/qpsimplex/solver"
	"q.log/qpsimplex/trace"
)

type solveFlags struct {
	config string

	maxIter  int
	tol      float64
	ctol     float64
	rtol     float64
	step     float64
	shrink   float64
	decrease float64

	direction string
	projector string
	search    string
	stop      string
	newton    bool

	start   string
	sparse  bool
	plot    string
	gap     bool
	out     string
	verbose int
}

func newSolveCmd() *cobra.Command {
	var sf solveFlags
	cmd := &cobra.Command{
		Use:   "solve <base>",
		Short: "Solve the instance stored in <base>_Q.csv, <base>_u.csv and <base>_A.csv or <base>_P.csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], &sf)
		},
	}

	def := solver.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&sf.config, "config", "", "YAML configuration file; flags override it")
	f.IntVar(&sf.maxIter, "max-iter", def.MaxIterations, "iteration cap")
	f.Float64Var(&sf.tol, "tol", def.Tolerance, "optimality tolerance")
	f.Float64Var(&sf.ctol, "ctol", def.ConstraintTol, "active bound and feasibility tolerance")
	f.Float64Var(&sf.rtol, "rtol", def.RelTol, "relative feasibility and fixed-point tolerance")
	f.Float64Var(&sf.step, "step", def.Step, "projection step and initial Armijo step")
	f.Float64Var(&sf.shrink, "shrink", def.Shrink, "Armijo contraction factor")
	f.Float64Var(&sf.decrease, "decrease", def.Decrease, "Armijo sufficient decrease constant")
	f.StringVar(&sf.direction, "direction", def.Direction.String(), "active|projected|kkt")
	f.StringVar(&sf.projector, "projector", def.Projector.String(), "sort|michelot")
	f.StringVar(&sf.search, "search", def.Search.String(), "exact|armijo")
	f.StringVar(&sf.stop, "stop", def.Stop.String(), "auto|norm|fixed|orthogonal")
	f.BoolVar(&sf.newton, "newton", false, "use the Hessian in the KKT direction")
	f.StringVar(&sf.start, "start", "centroid", "starting point: centroid|vertex|lp")
	f.BoolVar(&sf.sparse, "sparse", false, "store Q in compressed sparse rows")
	f.StringVar(&sf.plot, "plot", "", "save the objective history to this image file")
	f.BoolVar(&sf.gap, "gap", false, "plot the optimality gap on a log scale")
	f.StringVar(&sf.out, "out", "", "write the YAML report to this file instead of stdout")
	f.CountVarP(&sf.verbose, "verbose", "v", "log the final line, -vv every iteration, -vvv the active set")
	return cmd
}

func runSolve(cmd *cobra.Command, base string, sf *solveFlags) (err error) {
	cfg := solver.DefaultConfig()
	if sf.config != "" {
		if cfg, err = instance.ReadConfig(sf.config); err != nil {
			return err
		}
	}
	if err := sf.apply(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if sf.plot != "" {
		cfg.Trace = true
	}
	if sf.verbose > 0 {
		cfg.Logger = &solver.Logger{Level: solver.LogLevel(sf.verbose - 1), Msg: cmd.ErrOrStderr()}
	}

	p, err := instance.NewReader(base).ConstructProblem(sf.sparse)
	if err != nil {
		return err
	}
	x0, err := startPoint(p, sf.start)
	if err != nil {
		return err
	}

	res, err := solver.Solve(p, x0, cfg)
	if err != nil {
		return err
	}

	if sf.plot != "" {
		if err := trace.Save(res.History, sf.plot, trace.Options{Title: base, Gap: sf.gap}); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if sf.out != "" {
		f, ferr := os.Create(sf.out)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return instance.WriteResult(w, p, res, cfg.ConstraintTol)
}

// apply copies the flags set on the command line into cfg.
func (sf *solveFlags) apply(fs *pflag.FlagSet, cfg *solver.Config) (err error) {
	set := fs.Changed
	if set("max-iter") {
		cfg.MaxIterations = sf.maxIter
	}
	if set("tol") {
		cfg.Tolerance = sf.tol
	}
	if set("ctol") {
		cfg.ConstraintTol = sf.ctol
	}
	if set("rtol") {
		cfg.RelTol = sf.rtol
	}
	if set("step") {
		cfg.Step = sf.step
	}
	if set("shrink") {
		cfg.Shrink = sf.shrink
	}
	if set("decrease") {
		cfg.Decrease = sf.decrease
	}
	if set("newton") {
		cfg.Newton = sf.newton
	}
	if set("direction") {
		if cfg.Direction, err = solver.ParseDirection(sf.direction); err != nil {
			return err
		}
	}
	if set("projector") {
		if cfg.Projector, err = solver.ParseProjector(sf.projector); err != nil {
			return err
		}
	}
	if set("search") {
		if cfg.Search, err = solver.ParseSearch(sf.search); err != nil {
			return err
		}
	}
	if set("stop") {
		if cfg.Stop, err = solver.ParseStop(sf.stop); err != nil {
			return err
		}
	}
	return nil
}

func startPoint(p *model.Problem, start string) ([]float64, error) {
	switch start {
	case "centroid":
		return p.InitialPoint(), nil
	case "vertex":
		return p.VertexPoint(), nil
	case "lp":
		return p.LPPoint()
	}
	return nil, fmt.Errorf("unknown start %q, want centroid|vertex|lp: %w", start, solver.ErrInvalidConfig)
}
