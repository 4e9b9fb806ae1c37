package posterior

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RHatWarnThreshold is the split-chain R-hat above which a run is flagged as
// possibly unconverged.
const RHatWarnThreshold = 1.05

// RHat computes the split-chain Gelman-Rubin statistic for one parameter.
// Each chain is split in half so a single long chain still yields a usable
// diagnostic. Returns NaN when there is not enough data.
func RHat(chains [][]float64) float64 {
	var split [][]float64
	for _, c := range chains {
		if len(c) < 4 {
			return math.NaN()
		}
		half := len(c) / 2
		split = append(split, c[:half], c[half:half*2])
	}

	m := len(split)
	n := len(split[0])

	means := make([]float64, m)
	vars := make([]float64, m)
	for i, c := range split {
		means[i] = stat.Mean(c, nil)
		vars[i] = stat.Variance(c, nil)
	}

	w := stat.Mean(vars, nil)
	b := float64(n) * stat.Variance(means, nil)

	if w == 0 {
		return math.NaN()
	}

	varPlus := (float64(n-1)/float64(n))*w + b/float64(n)
	return math.Sqrt(varPlus / w)
}

// ESS estimates the effective sample size of a draw sequence from its
// autocorrelation function, truncated at the first small or negative lag.
func ESS(draws []float64) float64 {
	n := len(draws)
	if n < 4 {
		return float64(n)
	}

	mean := stat.Mean(draws, nil)
	variance := stat.Variance(draws, nil)
	if variance == 0 {
		return float64(n)
	}

	var acSum float64
	for lag := 1; lag < n/2; lag++ {
		var cov float64
		for i := 0; i < n-lag; i++ {
			cov += (draws[i] - mean) * (draws[i+lag] - mean)
		}
		rho := cov / (float64(n-lag) * variance)
		if rho < 0.05 {
			break
		}
		acSum += rho
	}

	ess := float64(n) / (1 + 2*acSum)
	if ess > float64(n) {
		ess = float64(n)
	}
	return ess
}

// ConvergenceWarnings returns human-readable warnings for parameters whose
// R-hat exceeds the threshold. Diagnostics are advisory; the run never fails
// on them.
func ConvergenceWarnings(summaries []ParamSummary) []string {
	var warnings []string
	for _, s := range summaries {
		if !math.IsNaN(s.RHat) && s.RHat > RHatWarnThreshold {
			warnings = append(warnings, warningFor(s))
		}
	}
	return warnings
}

func warningFor(s ParamSummary) string {
	return "parameter " + s.Name + " has split-chain R-hat above 1.05; inspect the trace plots and consider more draws"
}
