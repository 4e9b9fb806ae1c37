// Package survival implements the parametric pieces of a Weibull
// proportional-hazards model under right censoring: the censored
// log-likelihood, the derived hazard/survival functions, and the
// non-parametric Kaplan-Meier estimator used for exploration.
package survival

import "math"

// Observation is a single right-censored time-to-event record. Event false
// means the subject was still event-free when follow-up ended at Time.
type Observation struct {
	Time  float64
	Event bool
	Group int
}

// CensoredLogLik returns the log-likelihood contribution of one observation
// under a Weibull proportional-hazards model with shape alpha, baseline rate
// lambda and log hazard ratio beta for covariate x:
//
//	logL = d*(log a + log l + (a-1)*log t + b*x) - l*exp(b*x)*t^a
//
// where d is 1 for an observed event and 0 for a censored record. A censored
// record contributes only the log-survival term.
func CensoredLogLik(alpha, lambda, beta, x, t float64, event bool) float64 {
	if alpha <= 0 || lambda <= 0 || t <= 0 {
		return math.Inf(-1)
	}

	cum := lambda * math.Exp(beta*x) * math.Pow(t, alpha)
	ll := -cum
	if event {
		ll += math.Log(alpha) + math.Log(lambda) + (alpha-1)*math.Log(t) + beta*x
	}
	return ll
}

// DatasetLogLik sums CensoredLogLik over all observations, using each
// observation's group indicator as the covariate value.
func DatasetLogLik(alpha, lambda, beta float64, obs []Observation) float64 {
	var total float64
	for _, o := range obs {
		total += CensoredLogLik(alpha, lambda, beta, float64(o.Group), o.Time, o.Event)
	}
	return total
}

// CumulativeHazard evaluates L(t) = lambda * mult * t^alpha, where mult is
// the multiplicative group effect exp(beta*x).
func CumulativeHazard(alpha, lambda, mult, t float64) float64 {
	if t <= 0 {
		return 0
	}
	return lambda * mult * math.Pow(t, alpha)
}

// Survival evaluates S(t) = exp(-L(t)).
func Survival(alpha, lambda, mult, t float64) float64 {
	return math.Exp(-CumulativeHazard(alpha, lambda, mult, t))
}

// Hazard evaluates the instantaneous hazard h(t) = alpha*lambda*mult*t^(alpha-1).
func Hazard(alpha, lambda, mult, t float64) float64 {
	if t <= 0 {
		return 0
	}
	return alpha * lambda * mult * math.Pow(t, alpha-1)
}

// HazardRatio returns the ratio of the hazards of two covariate values. Under
// proportional hazards this is exp(beta*(x1-x2)) at every time point.
func HazardRatio(beta, x1, x2 float64) float64 {
	return math.Exp(beta * (x1 - x2))
}

// GroupMultiplier is the factor exp(beta*x) that scales the baseline
// cumulative hazard for covariate value x.
func GroupMultiplier(beta, x float64) float64 {
	return math.Exp(beta * x)
}

// TimeGrid returns n evenly spaced points from 0 to max inclusive, for
// evaluating survival and hazard curves.
func TimeGrid(max float64, n int) []float64 {
	if n < 2 {
		return []float64{0, max}
	}
	grid := make([]float64, n)
	step := max / float64(n-1)
	for i := range grid {
		grid[i] = float64(i) * step
	}
	return grid
}
