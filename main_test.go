package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"q.log/qpsimplex/instance"
	"q.log/qpsimplex/solver"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), errOut.String())
	return out.String()
}

func TestGenerateAndSolve(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "inst")
	run(t, newGenerateCmd(), "8", "3", base, "--seed", "4", "--ecc", "0.2")

	cfgPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("direction: projected\nmax_iterations: 5000\n"), 0o644))

	for _, start := range []string{"centroid", "vertex", "lp"} {
		plotPath := filepath.Join(dir, start+".png")
		out := run(t, newSolveCmd(), base,
			"--config", cfgPath,
			"--search", "armijo",
			"--tol", "1e-7",
			"--start", start,
			"--sparse",
			"--plot", plotPath,
			"--gap",
		)

		var rep instance.Report
		require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
		require.Equal(t, "converged", rep.Status)
		require.True(t, rep.Feasible)
		require.Len(t, rep.Solution, 8)
		require.Len(t, rep.Blocks, 3)
		require.NotEmpty(t, rep.History)

		_, err := os.Stat(plotPath)
		require.NoError(t, err)
	}
}

func TestSolveFlagsOverrideConfig(t *testing.T) {
	cmd := newSolveCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--direction", "kkt", "--newton", "--rtol", "0"}))

	cfg := solver.DefaultConfig()
	cfg.Search = solver.Armijo
	cfg.MaxIterations = 7
	var sf solveFlags
	sf.direction, sf.newton, sf.rtol = "kkt", true, 0
	require.NoError(t, sf.apply(cmd.Flags(), &cfg))

	require.Equal(t, solver.KKT, cfg.Direction)
	require.True(t, cfg.Newton)
	require.Zero(t, cfg.RelTol)
	// untouched flags keep the file values
	require.Equal(t, solver.Armijo, cfg.Search)
	require.Equal(t, 7, cfg.MaxIterations)
}

func TestSolveUnknownStart(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "inst")
	run(t, newGenerateCmd(), "4", "2", base)

	cmd := newSolveCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{base, "--start", "corner"})
	require.ErrorIs(t, cmd.Execute(), solver.ErrInvalidConfig)
}
