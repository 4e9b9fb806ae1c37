// Package posterior holds the sampled parameter trace and the pure functions
// that turn it into summary statistics, credible intervals, derived survival
// curves and convergence diagnostics.
package posterior

import "math"

// Trace is the ordered sequence of joint parameter draws produced by the
// sampler, kept per chain. Draws are stored on the sampled (unconstrained)
// scale: (log alpha, log lambda, beta).
type Trace struct {
	names  []string
	chains [][][]float64
}

func NewTrace(chains int, names []string) *Trace {
	return &Trace{
		names:  names,
		chains: make([][][]float64, chains),
	}
}

// Append records one draw for the given chain. The draw is copied.
func (t *Trace) Append(chain int, theta []float64) {
	draw := make([]float64, len(theta))
	copy(draw, theta)
	t.chains[chain] = append(t.chains[chain], draw)
}

func (t *Trace) Chains() int {
	return len(t.chains)
}

// Len returns the number of draws in the shortest chain.
func (t *Trace) Len() int {
	if len(t.chains) == 0 {
		return 0
	}
	n := len(t.chains[0])
	for _, c := range t.chains[1:] {
		if len(c) < n {
			n = len(c)
		}
	}
	return n
}

func (t *Trace) ParamNames() []string {
	return t.names
}

// ChainParam returns one parameter's draws for one chain, on the sampled
// scale.
func (t *Trace) ChainParam(chain, param int) []float64 {
	draws := t.chains[chain]
	out := make([]float64, len(draws))
	for i, d := range draws {
		out[i] = d[param]
	}
	return out
}

// Merged concatenates all chains for one parameter, on the sampled scale.
func (t *Trace) Merged(param int) []float64 {
	var out []float64
	for c := range t.chains {
		out = append(out, t.ChainParam(c, param)...)
	}
	return out
}

// Alpha returns the merged Weibull shape draws on the natural scale.
func (t *Trace) Alpha() []float64 {
	return expAll(t.Merged(0))
}

// Lambda returns the merged baseline rate draws on the natural scale.
func (t *Trace) Lambda() []float64 {
	return expAll(t.Merged(1))
}

// Beta returns the merged covariate-effect draws.
func (t *Trace) Beta() []float64 {
	return t.Merged(2)
}

func expAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Exp(x)
	}
	return out
}
