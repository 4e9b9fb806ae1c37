package posterior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalChain(n int, mu, sigma float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 1))
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*rng.NormFloat64()
	}
	return out
}

func TestRHatWellMixedChains(t *testing.T) {
	chains := [][]float64{
		normalChain(1000, 0, 1, 1),
		normalChain(1000, 0, 1, 2),
		normalChain(1000, 0, 1, 3),
	}

	r := RHat(chains)
	require.False(t, math.IsNaN(r))
	assert.InDelta(t, 1.0, r, 0.05, "iid chains should have R-hat near 1")
}

func TestRHatSeparatedChains(t *testing.T) {
	chains := [][]float64{
		normalChain(500, 0, 1, 4),
		normalChain(500, 5, 1, 5),
	}

	r := RHat(chains)
	assert.Greater(t, r, 1.2, "chains stuck in different regions must be flagged")
}

func TestRHatTooShort(t *testing.T) {
	r := RHat([][]float64{{1, 2}})
	assert.True(t, math.IsNaN(r))
}

func TestESSIndependentDraws(t *testing.T) {
	draws := normalChain(2000, 0, 1, 6)
	ess := ESS(draws)
	assert.Greater(t, ess, 1000.0, "iid draws should keep most of their sample size")
	assert.LessOrEqual(t, ess, 2000.0)
}

func TestESSCorrelatedDraws(t *testing.T) {
	// A slow AR(1) walk has far fewer effective draws than raw draws.
	rng := rand.New(rand.NewPCG(7, 1))
	draws := make([]float64, 2000)
	for i := 1; i < len(draws); i++ {
		draws[i] = 0.98*draws[i-1] + 0.2*rng.NormFloat64()
	}

	ess := ESS(draws)
	assert.Less(t, ess, 500.0, "autocorrelated draws must shrink the ESS")
}

func TestESSDegenerate(t *testing.T) {
	assert.Equal(t, 3.0, ESS([]float64{1, 2, 3}))
	assert.Equal(t, 10.0, ESS(make([]float64, 10)), "zero-variance draws fall back to n")
}

func TestConvergenceWarnings(t *testing.T) {
	summaries := []ParamSummary{
		{Name: "alpha", RHat: 1.01},
		{Name: "lambda", RHat: 1.3},
		{Name: "beta", RHat: math.NaN()},
	}

	warnings := ConvergenceWarnings(summaries)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "lambda")
}
