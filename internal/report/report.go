// Package report renders evaluation plots for trained models. The output
// format follows the file extension (.png, .svg, .pdf, ...).
package report

import (
	"image/color"
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("report: no data")

// PredictionScatter plots predicted against actual values with the identity
// line for reference and writes the figure to path.
func PredictionScatter(yTrue, yPred []float64, path string) error {
	if len(yTrue) == 0 {
		return errors.WithStack(ErrNoData)
	}
	if len(yTrue) != len(yPred) {
		return errors.Newf("report: %d actual values but %d predictions", len(yTrue), len(yPred))
	}
	pts := make(plotter.XYs, len(yTrue))
	for i := range yTrue {
		pts[i].X, pts[i].Y = yTrue[i], yPred[i]
	}

	p := plot.New()
	p.Title.Text = "Predicted vs actual median house value"
	p.X.Label.Text = "Actual (100k USD)"
	p.Y.Label.Text = "Predicted (100k USD)"
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report: scatter")
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	p.Add(s)

	lo := math.Min(floats.Min(yTrue), floats.Min(yPred))
	hi := math.Max(floats.Max(yTrue), floats.Max(yPred))
	ident := plotter.NewFunction(func(x float64) float64 { return x })
	ident.XMin, ident.XMax = lo, hi
	ident.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	ident.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ident)
	p.Legend.Add("identity", ident)
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, 6*vg.Inch, 6*vg.Inch, path)
}

// FeatureImportanceChart draws one bar per feature, largest first.
func FeatureImportanceChart(names []string, importances []float64, path string) error {
	if len(names) == 0 {
		return errors.WithStack(ErrNoData)
	}
	if len(names) != len(importances) {
		return errors.Newf("report: %d names but %d importances", len(names), len(importances))
	}
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return importances[order[a]] > importances[order[b]] })

	vals := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, j := range order {
		vals[i], labels[i] = importances[j], names[j]
	}

	p := plot.New()
	p.Title.Text = "Feature importances (mean impurity decrease)"
	p.Y.Label.Text = "Importance"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(vals, vg.Points(28))
	if err != nil {
		return errors.Wrap(err, "report: bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight

	return save(p, vg.Length(len(labels))*0.9*vg.Inch+2*vg.Inch, 4.5*vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "report: save %s", path)
	}
	return nil
}
