package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"q.log/qpsimplex/model"
	"q.log/qpsimplex/simplex"
	"q.log/qpsimplex/solver"
)

func TestWriteReadRoundTrip(t *testing.T) {
	in, err := Generate(7, 3, 0.5, 42)
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "rand")
	require.NoError(t, in.Write(base))

	for _, sparse := range []bool{false, true} {
		p, err := NewReader(base).ConstructProblem(sparse)
		require.NoError(t, err)
		require.Equal(t, 7, p.NumVars)
		require.Equal(t, 3, p.NumBlocks)
		require.Equal(t, in.Linear, p.Linear())
		require.Equal(t, in.Blocks, p.Blocks())
		require.True(t, mat.EqualApprox(in.Q, p.Q, 1e-15))
	}
}

func TestReadIncidence(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "small")
	files := map[string]string{
		QuadSuffix:      "1.0, 0.0, 0.0\n0.0, 2.0, 0.0\n0.0, 0.0, 3.0\n",
		LinearSuffix:    "1.0,2.0,3.0\n",
		IncidenceSuffix: "1,0,1\n0,1,0\n",
		// ignored when the incidence matrix exists
		PartitionSuffix: "0,1,2\n",
	}
	for suffix, body := range files {
		require.NoError(t, os.WriteFile(base+suffix, []byte(body), 0o644))
	}

	p, err := NewReader(base).ConstructProblem(false)
	require.NoError(t, err)
	require.Equal(t, model.Partition{{0, 2}, {1}}, p.Blocks())
	require.Equal(t, []float64{1, 2, 3}, p.Linear())
	require.Equal(t, 2.0, p.Q.At(1, 1))
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(base, suffix, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, base+suffix), []byte(body), 0o644))
	}

	write("ragged", QuadSuffix, "1,0\n0\n")
	write("ragged", LinearSuffix, "0\n0\n")
	write("ragged", PartitionSuffix, "0,1\n")
	_, err := NewReader(filepath.Join(dir, "ragged")).ConstructProblem(false)
	require.ErrorIs(t, err, ErrFormat)
	require.ErrorIs(t, err, model.ErrConfiguration)

	write("word", QuadSuffix, "1,0\n0,x\n")
	_, err = NewReader(filepath.Join(dir, "word")).ConstructProblem(false)
	require.ErrorIs(t, err, ErrFormat)

	write("overlap", QuadSuffix, "1,0\n0,1\n")
	write("overlap", LinearSuffix, "0\n0\n")
	write("overlap", PartitionSuffix, "0,1\n1\n")
	_, err = NewReader(filepath.Join(dir, "overlap")).ConstructProblem(true)
	require.ErrorIs(t, err, model.ErrPartition)

	_, err = NewReader(filepath.Join(dir, "missing")).ConstructProblem(false)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate(t *testing.T) {
	const n, k, ecc = 20, 4, 0.6
	a, err := Generate(n, k, ecc, 9)
	require.NoError(t, err)
	b, err := Generate(n, k, ecc, 9)
	require.NoError(t, err)
	require.Equal(t, a, b)

	require.NoError(t, a.Blocks.Validate(n))
	require.Len(t, a.Blocks, k)
	for _, v := range a.Linear {
		require.True(t, v >= 0 && v < 1)
	}

	var es mat.EigenSym
	require.True(t, es.Factorize(a.Q, false))
	vals := es.Values(nil)
	lo, hi := vals[0], vals[n-1]
	require.Greater(t, lo, 0.0)
	require.InDelta(t, ecc, (hi-lo)/(hi+lo), 1e-6)

	p, err := a.Problem(true)
	require.NoError(t, err)
	require.Equal(t, n, p.NumVars)
}

func TestGenerateErrors(t *testing.T) {
	for _, args := range []struct {
		n, k int
		ecc  float64
	}{
		{0, 1, 0.5},
		{3, 4, 0.5},
		{3, 0, 0.5},
		{3, 2, 1},
		{3, 2, -0.1},
	} {
		_, err := Generate(args.n, args.k, args.ecc, 1)
		require.ErrorIs(t, err, ErrArgument)
		require.ErrorIs(t, err, model.ErrConfiguration)
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
max_iterations: 50
tolerance: 1.0e-6
rel_tol: 0
direction: kkt
projector: michelot
search: armijo
stop: orthogonal
newton: true
`))
	require.NoError(t, err)

	want := solver.DefaultConfig()
	want.MaxIterations = 50
	want.Tolerance = 1e-6
	want.RelTol = 0
	want.Direction = solver.KKT
	want.Projector = simplex.Michelot
	want.Search = solver.Armijo
	want.Stop = solver.Orthogonality
	want.Newton = true
	require.Equal(t, want, cfg)

	cfg, err = DecodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, solver.DefaultConfig(), cfg)

	_, err = DecodeConfig(strings.NewReader("tolerence: 1\n"))
	require.ErrorIs(t, err, ErrFormat)

	_, err = DecodeConfig(strings.NewReader("direction: newton\n"))
	require.ErrorIs(t, err, solver.ErrInvalidConfig)
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: armijo\nstep: 2\n"), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, solver.Armijo, cfg.Search)
	require.Equal(t, 2.0, cfg.Step)
	require.Equal(t, solver.ActiveSet, cfg.Direction)
}

func TestWriteResult(t *testing.T) {
	in, err := Generate(6, 2, 0.3, 3)
	require.NoError(t, err)
	p, err := in.Problem(false)
	require.NoError(t, err)

	res := &solver.Result{
		X:          p.VertexPoint(),
		F:          p.F(p.VertexPoint()),
		Iterations: 0,
		Status:     solver.Converged,
		Feasible:   true,
		Elapsed:    time.Millisecond,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, p, res, model.AbsTol))

	var rep Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rep))
	require.Equal(t, "converged", rep.Status)
	require.Equal(t, res.F, rep.Value)
	require.Equal(t, "1ms", rep.Elapsed)
	require.Equal(t, res.X, rep.Solution)
	require.Nil(t, rep.History)
	require.Len(t, rep.Blocks, 2)
	for b, br := range rep.Blocks {
		require.Equal(t, 1.0, br.Sum)
		require.Equal(t, []int{in.Blocks[b][0]}, br.Support)
	}
}

func TestWriteResultSupportThreshold(t *testing.T) {
	op, err := model.NewDenseData(3, make([]float64, 9))
	require.NoError(t, err)
	p, err := model.New(op, []float64{0, 0, 0}, model.Partition{{0, 1, 2}})
	require.NoError(t, err)
	res := &solver.Result{X: []float64{0.6, 1e-10, 0.4 - 1e-10}, Status: solver.Converged}

	for _, tt := range []struct {
		ctol float64
		want []int
	}{
		{1e-9, []int{0, 2}},
		{1e-12, []int{0, 1, 2}},
	} {
		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, p, res, tt.ctol))
		var rep Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rep))
		require.Len(t, rep.Blocks, 1)
		require.Equal(t, tt.want, rep.Blocks[0].Support)
	}
}
