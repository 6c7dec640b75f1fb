// Package chart renders line charts to PNG files.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Line is one series of a chart. X and Y must have the same length; points
// with a NaN coordinate are not drawn.
type Line struct {
	Label string    `json:"label"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Spec describes one chart file.
type Spec struct {
	// File is the file name inside the output directory.
	File   string `json:"file"`
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Lines  []Line `json:"lines"`
}

var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

func (l Line) points() (plotter.XYs, error) {
	if len(l.X) != len(l.Y) {
		return nil, fmt.Errorf("line %q: %d x values for %d y values", l.Label, len(l.X), len(l.Y))
	}
	xys := make(plotter.XYs, 0, len(l.X))
	for i := range l.X {
		if math.IsNaN(l.X[i]) || math.IsNaN(l.Y[i]) || math.IsInf(l.Y[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: l.X[i], Y: l.Y[i]})
	}
	return xys, nil
}

// Plot builds the gonum plot for s.
func Plot(s Spec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	ticks := map[float64]struct{}{}
	for i, l := range s.Lines {
		xys, err := l.points()
		if err != nil {
			return nil, err
		}
		if len(xys) == 0 {
			continue
		}
		line, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", l.Label, err)
		}
		line.Color = plotutil.Color(i)
		pts.Color = plotutil.Color(i)
		pts.Shape = draw.CircleGlyph{}
		p.Add(line, pts)
		if l.Label != "" {
			p.Legend.Add(l.Label, line, pts)
		}
		for _, xy := range xys {
			ticks[xy.X] = struct{}{}
		}
	}
	if integral(ticks) && len(ticks) <= 24 {
		p.X.Tick.Marker = integerTicks(ticks)
	}
	return p, nil
}

func integral(xs map[float64]struct{}) bool {
	if len(xs) == 0 {
		return false
	}
	for x := range xs {
		if x != math.Trunc(x) {
			return false
		}
	}
	return true
}

func integerTicks(xs map[float64]struct{}) plot.ConstantTicks {
	lo, hi := math.Inf(1), math.Inf(-1)
	for x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	var out plot.ConstantTicks
	for x := lo; x <= hi; x++ {
		out = append(out, plot.Tick{Value: x, Label: strconv.Itoa(int(x))})
	}
	return out
}

// Render writes s as an image to path. The format follows the extension.
func Render(s Spec, path string) error {
	p, err := Plot(s)
	if err != nil {
		return fmt.Errorf("chart %s: %w", s.File, err)
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// RenderAll writes every spec into dir, creating it if needed, and returns
// the written paths.
func RenderAll(dir string, specs []Spec) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(specs))
	for _, s := range specs {
		path := filepath.Join(dir, s.File)
		if err := Render(s, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
