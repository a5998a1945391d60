package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func TestNew(t *testing.T) {
	history := []float64{3, 1.5, 1.1, 1, 1}

	p, err := New(history, Options{Title: "run"})
	require.NoError(t, err)
	require.Equal(t, "run", p.Title.Text)
	require.Equal(t, 1.0, p.Y.Min)
	require.Equal(t, 3.0, p.Y.Max)

	p, err = New(history, Options{Gap: true})
	require.NoError(t, err)
	require.IsType(t, plot.LogScale{}, p.Y.Scale)
	require.Equal(t, gapFloor, p.Y.Min)
	require.Equal(t, 2.0, p.Y.Max)

	_, err = New(nil, Options{})
	require.Error(t, err)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	history := []float64{2, 1, 0.5, 0.25}
	for _, name := range []string{"trace.png", "trace.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(history, path, Options{Gap: true}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}

func TestGapFlatHistory(t *testing.T) {
	for _, history := range [][]float64{{1.5}, {2, 2, 2}} {
		p, err := New(history, Options{Gap: true})
		require.NoError(t, err)
		require.Greater(t, p.Y.Min, 0.0)
		require.Greater(t, p.Y.Max, p.Y.Min)

		path := filepath.Join(t.TempDir(), "flat.png")
		require.NoError(t, Save(history, path, Options{Gap: true}))
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}
