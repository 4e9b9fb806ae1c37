// Package plot renders the analysis figures as PNG files: Kaplan-Meier
// steps, posterior survival bands, hazard-ratio histogram and per-parameter
// trace plots.
package plot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/survkit/survbayes/internal/dataset"
	"github.com/survkit/survbayes/internal/posterior"
	"github.com/survkit/survbayes/internal/survival"
)

var groupColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
}

// KaplanMeier plots the per-group product-limit step functions.
func KaplanMeier(outDir string, ds *dataset.Dataset, curves map[int]survival.Curve) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Kaplan-Meier survival (%s)", ds.Name)
	p.X.Label.Text = fmt.Sprintf("time (%s)", ds.TimeUnit)
	p.Y.Label.Text = "S(t)"
	p.Y.Min, p.Y.Max = 0, 1

	for grp := 0; grp <= 1; grp++ {
		curve, ok := curves[grp]
		if !ok || len(curve.Times) == 0 {
			continue
		}
		line, err := plotter.NewLine(stepPoints(curve, ds.MaxTime()))
		if err != nil {
			return "", fmt.Errorf("failed to build KM line: %w", err)
		}
		line.Color = groupColors[grp%len(groupColors)]
		p.Add(line)
		p.Legend.Add(ds.GroupLabel(grp), line)
	}

	path := filepath.Join(outDir, "kaplan-meier.png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save KM plot: %w", err)
	}
	return path, nil
}

// stepPoints expands a product-limit curve into the right-continuous step
// polyline starting at S(0) = 1.
func stepPoints(curve survival.Curve, maxTime float64) plotter.XYs {
	pts := plotter.XYs{{X: 0, Y: 1}}
	prev := 1.0
	for i, t := range curve.Times {
		pts = append(pts, plotter.XY{X: t, Y: prev})
		pts = append(pts, plotter.XY{X: t, Y: curve.Prob[i]})
		prev = curve.Prob[i]
	}
	pts = append(pts, plotter.XY{X: maxTime, Y: prev})
	return pts
}

// SurvivalBands plots the posterior median survival curves per group with
// dashed 95% credible bounds.
func SurvivalBands(outDir string, ds *dataset.Dataset, bands map[int]posterior.Band) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Posterior survival (%s)", ds.Name)
	p.X.Label.Text = fmt.Sprintf("time (%s)", ds.TimeUnit)
	p.Y.Label.Text = "S(t)"
	p.Y.Min, p.Y.Max = 0, 1

	for grp := 0; grp <= 1; grp++ {
		band, ok := bands[grp]
		if !ok {
			continue
		}
		c := groupColors[grp%len(groupColors)]

		median, err := plotter.NewLine(xys(band.Times, band.Median))
		if err != nil {
			return "", fmt.Errorf("failed to build survival line: %w", err)
		}
		median.Color = c
		p.Add(median)
		p.Legend.Add(ds.GroupLabel(grp), median)

		for _, bound := range [][]float64{band.Lower, band.Upper} {
			line, err := plotter.NewLine(xys(band.Times, bound))
			if err != nil {
				return "", fmt.Errorf("failed to build credible bound: %w", err)
			}
			line.Color = c
			line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(line)
		}
	}

	path := filepath.Join(outDir, "survival-bands.png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save survival plot: %w", err)
	}
	return path, nil
}

// Traces writes one trace plot per sampled parameter, chains overlaid.
func Traces(outDir string, tr *posterior.Trace) ([]string, error) {
	var paths []string
	for param, name := range tr.ParamNames() {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("Trace: %s", name)
		p.X.Label.Text = "draw"
		p.Y.Label.Text = name

		for c := 0; c < tr.Chains(); c++ {
			draws := tr.ChainParam(c, param)
			pts := make(plotter.XYs, len(draws))
			for i, v := range draws {
				pts[i] = plotter.XY{X: float64(i), Y: v}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to build trace line: %w", err)
			}
			line.Color = groupColors[c%len(groupColors)]
			p.Add(line)
		}

		path := filepath.Join(outDir, fmt.Sprintf("trace-%s.png", name))
		if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("failed to save trace plot: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// HazardRatioHist plots the posterior distribution of the group hazard
// ratio.
func HazardRatioHist(outDir string, tr *posterior.Trace) (string, error) {
	beta := tr.Beta()
	hr := make(plotter.Values, len(beta))
	for i, b := range beta {
		hr[i] = survival.HazardRatio(b, 1, 0)
	}

	p := plot.New()
	p.Title.Text = "Posterior hazard ratio"
	p.X.Label.Text = "hazard ratio"

	hist, err := plotter.NewHist(hr, 40)
	if err != nil {
		return "", fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.Normalize(1)
	p.Add(hist)

	path := filepath.Join(outDir, "hazard-ratio.png")
	if err := p.Save(5*vg.Inch, 3*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save hazard ratio plot: %w", err)
	}
	return path, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}
