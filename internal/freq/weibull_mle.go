package freq

import (
	"fmt"
	"math"
)

// WeibullMLE fits a Weibull model to fully observed (uncensored) event times
// by maximum likelihood, in the rate parameterization used by the Bayesian
// model: density f(t) = alpha*lambda*t^(alpha-1)*exp(-lambda*t^alpha).
//
// The shape solves the usual profile score equation by bisection; the rate
// is then lambda = n / sum(t^alpha).
func WeibullMLE(times []float64) (alpha, lambda float64, err error) {
	n := len(times)
	if n == 0 {
		return 0, 0, fmt.Errorf("cannot fit Weibull to empty sample")
	}
	for _, t := range times {
		if t <= 0 {
			return 0, 0, fmt.Errorf("Weibull sample must be strictly positive, got %g", t)
		}
	}

	// score(a) is strictly decreasing in a, positive near 0 and negative for
	// large a, so bisection is safe.
	lo, hi := 1e-3, 1e3
	if score(times, lo) < 0 || score(times, hi) > 0 {
		return 0, 0, fmt.Errorf("Weibull shape estimate out of range")
	}

	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if score(times, mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	alpha = 0.5 * (lo + hi)

	var sumPow float64
	for _, t := range times {
		sumPow += math.Pow(t, alpha)
	}
	lambda = float64(n) / sumPow

	return alpha, lambda, nil
}

func score(times []float64, a float64) float64 {
	n := float64(len(times))

	var sumLog, sumPow, sumPowLog float64
	for _, t := range times {
		lt := math.Log(t)
		pt := math.Pow(t, a)
		sumLog += lt
		sumPow += pt
		sumPowLog += pt * lt
	}

	return n/a + sumLog - n*sumPowLog/sumPow
}
