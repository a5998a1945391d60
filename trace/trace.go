// Package trace plots the objective history of a solve.
package trace

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// gapFloor keeps zero gaps on a log axis.
const gapFloor = 1e-16

// Options of a history plot.
type Options struct {
	Title string
	// Gap plots f(x_k) - min_k f(x_k) on a log scale instead of f(x_k).
	Gap bool
	// Width and Height of the saved image, 4×3 inches when zero.
	Width, Height vg.Length
}

// New returns a line plot of history against the iteration index.
func New(history []float64, o Options) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("trace: empty history")
	}

	pts := make(plotter.XYs, len(history))
	best := slices.Min(history)
	for k, f := range history {
		pts[k].X = float64(k)
		pts[k].Y = f
		if o.Gap {
			pts[k].Y = math.Max(f-best, gapFloor)
		}
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "f(x)"
	if o.Gap {
		p.Y.Label.Text = "f(x) - f*"
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	p.Add(line)
	if o.Gap && p.Y.Max <= p.Y.Min {
		// a flat range would be widened across zero
		p.Y.Max = 10 * p.Y.Min
	}
	return p, nil
}

// Save writes the history plot to path; the extension selects the format
// (png, svg, pdf, ...).
func Save(history []float64, path string, o Options) error {
	p, err := New(history, o)
	if err != nil {
		return err
	}
	w, h := o.Width, o.Height
	if w == 0 {
		w = 4 * vg.Inch
	}
	if h == 0 {
		h = 3 * vg.Inch
	}
	return p.Save(w, h, path)
}
