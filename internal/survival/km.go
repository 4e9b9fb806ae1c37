package survival

import (
	"math"
	"sort"
)

// Curve is a Kaplan-Meier product-limit estimate. Times holds the distinct
// event times in ascending order; Prob[i] is the estimated survival
// probability just after Times[i]. Lower/Upper are pointwise 95% confidence
// bounds from Greenwood's variance formula, clipped to [0, 1].
type Curve struct {
	Times  []float64
	Prob   []float64
	Lower  []float64
	Upper  []float64
	AtRisk []int
	Deaths []int
}

// KaplanMeier computes the product-limit survival estimate for a set of
// right-censored observations. Censored subjects leave the risk set at their
// censoring time without contributing a factor.
func KaplanMeier(obs []Observation) Curve {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var curve Curve
	surv := 1.0
	greenwood := 0.0
	atRisk := len(sorted)

	i := 0
	for i < len(sorted) {
		t := sorted[i].Time
		deaths := 0
		removed := 0
		for i < len(sorted) && sorted[i].Time == t {
			if sorted[i].Event {
				deaths++
			}
			removed++
			i++
		}

		if deaths > 0 {
			n := float64(atRisk)
			d := float64(deaths)
			surv *= 1 - d/n
			if n > d {
				greenwood += d / (n * (n - d))
			}

			se := surv * math.Sqrt(greenwood)
			curve.Times = append(curve.Times, t)
			curve.Prob = append(curve.Prob, surv)
			curve.Lower = append(curve.Lower, clamp01(surv-1.96*se))
			curve.Upper = append(curve.Upper, clamp01(surv+1.96*se))
			curve.AtRisk = append(curve.AtRisk, atRisk)
			curve.Deaths = append(curve.Deaths, deaths)
		}

		atRisk -= removed
	}

	return curve
}

// At returns the step-function value of the estimate at time t. Before the
// first event time the estimate is 1.
func (c Curve) At(t float64) float64 {
	prob := 1.0
	for i, et := range c.Times {
		if et > t {
			break
		}
		prob = c.Prob[i]
	}
	return prob
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
