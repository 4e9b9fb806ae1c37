package posterior

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/survkit/survbayes/internal/survival"
)

// ParamSummary describes one parameter's marginal posterior on the natural
// scale, plus its convergence diagnostics computed on the sampled scale.
type ParamSummary struct {
	Name   string
	Mean   float64
	SD     float64
	Q2_5   float64
	Median float64
	Q97_5  float64
	RHat   float64
	ESS    float64
}

// IntervalSummary is a mean with an equal-tailed 95% credible interval.
type IntervalSummary struct {
	Mean   float64
	Q2_5   float64
	Median float64
	Q97_5  float64
}

// Band is a pointwise posterior band for a derived curve over a time grid.
type Band struct {
	Times  []float64
	Lower  []float64
	Median []float64
	Upper  []float64
}

// Summarize computes marginal summaries for alpha, lambda and beta.
func Summarize(t *Trace) []ParamSummary {
	natural := [][]float64{t.Alpha(), t.Lambda(), t.Beta()}
	names := []string{"alpha", "lambda", "beta"}

	summaries := make([]ParamSummary, len(names))
	for p, name := range names {
		s := summarizeDraws(natural[p])
		s.Name = name
		s.RHat = RHat(chainsOf(t, p))
		s.ESS = ESS(t.Merged(p))
		summaries[p] = s
	}
	return summaries
}

func chainsOf(t *Trace, param int) [][]float64 {
	chains := make([][]float64, t.Chains())
	for c := range chains {
		chains[c] = t.ChainParam(c, param)
	}
	return chains
}

func summarizeDraws(draws []float64) ParamSummary {
	return ParamSummary{
		Mean:   stat.Mean(draws, nil),
		SD:     stat.StdDev(draws, nil),
		Q2_5:   Quantile(draws, 0.025),
		Median: Quantile(draws, 0.5),
		Q97_5:  Quantile(draws, 0.975),
	}
}

// Quantile returns the empirical p-quantile of the draws.
func Quantile(draws []float64, p float64) float64 {
	sorted := make([]float64, len(draws))
	copy(sorted, draws)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// SurvivalBand evaluates S(t | x) for every posterior draw over the time
// grid and returns the pointwise 2.5/50/97.5 percentiles.
func SurvivalBand(t *Trace, grid []float64, x float64) Band {
	alpha := t.Alpha()
	lambda := t.Lambda()
	beta := t.Beta()

	band := Band{
		Times:  grid,
		Lower:  make([]float64, len(grid)),
		Median: make([]float64, len(grid)),
		Upper:  make([]float64, len(grid)),
	}

	vals := make([]float64, len(alpha))
	for i, tp := range grid {
		for j := range alpha {
			mult := survival.GroupMultiplier(beta[j], x)
			vals[j] = survival.Survival(alpha[j], lambda[j], mult, tp)
		}
		band.Lower[i] = Quantile(vals, 0.025)
		band.Median[i] = Quantile(vals, 0.5)
		band.Upper[i] = Quantile(vals, 0.975)
	}

	return band
}

// HazardRatioSummary summarizes the posterior hazard ratio between covariate
// values x1 and x2. Under proportional hazards the ratio is time-free.
func HazardRatioSummary(t *Trace, x1, x2 float64) IntervalSummary {
	beta := t.Beta()
	hr := make([]float64, len(beta))
	for i, b := range beta {
		hr[i] = survival.HazardRatio(b, x1, x2)
	}
	return IntervalSummary{
		Mean:   stat.Mean(hr, nil),
		Q2_5:   Quantile(hr, 0.025),
		Median: Quantile(hr, 0.5),
		Q97_5:  Quantile(hr, 0.975),
	}
}
