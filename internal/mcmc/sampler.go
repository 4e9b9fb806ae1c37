package mcmc

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/survkit/survbayes/internal/posterior"
)

// Config controls the Metropolis-Hastings run.
type Config struct {
	Chains int     `yaml:"chains"`
	Draws  int     `yaml:"draws"`
	BurnIn int     `yaml:"burnin"`
	Thin   int     `yaml:"thin"`
	Step   float64 `yaml:"step"`
	Seed   uint64  `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Chains: 4,
		Draws:  2000,
		BurnIn: 1000,
		Thin:   1,
		Step:   0.15,
		Seed:   42,
	}
}

// Stats reports what the sampler actually did.
type Stats struct {
	Chains        int
	DrawsPerChain int
	AcceptRate    float64
}

type Sampler struct {
	cfg    Config
	logger *zap.Logger
}

func NewSampler(cfg Config, logger *zap.Logger) (*Sampler, error) {
	if cfg.Chains < 1 {
		return nil, fmt.Errorf("sampler requires at least one chain, got %d", cfg.Chains)
	}
	if cfg.Draws < 1 {
		return nil, fmt.Errorf("sampler requires at least one draw per chain, got %d", cfg.Draws)
	}
	if cfg.Thin < 1 {
		cfg.Thin = 1
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{cfg: cfg, logger: logger}, nil
}

// Run samples the posterior with one independent Metropolis-Hastings chain
// per configured chain, each with its own PCG stream. Draws are recorded
// after burn-in and thinning.
func (s *Sampler) Run(ctx context.Context, m *Model) (*posterior.Trace, Stats, error) {
	initial := m.InitialPoint()
	if lp := m.LogProb(initial); math.IsInf(lp, -1) || math.IsNaN(lp) {
		return nil, Stats{}, fmt.Errorf("initial point has non-finite log-posterior")
	}

	trace := posterior.NewTrace(s.cfg.Chains, ParamNames())

	var moved, total int
	for c := 0; c < s.cfg.Chains; c++ {
		select {
		case <-ctx.Done():
			return nil, Stats{}, ctx.Err()
		default:
		}

		src := rand.NewPCG(s.cfg.Seed, uint64(c)+1)

		sigma := mat.NewSymDense(NumParams, nil)
		for i := 0; i < NumParams; i++ {
			sigma.SetSym(i, i, s.cfg.Step*s.cfg.Step)
		}

		proposal, ok := samplemv.NewProposalNormal(sigma, src)
		if !ok {
			return nil, Stats{}, fmt.Errorf("proposal covariance is not positive definite")
		}

		mh := samplemv.MetropolisHastingser{
			Initial:  initial,
			Target:   m,
			Proposal: proposal,
			Src:      src,
			BurnIn:   s.cfg.BurnIn,
			Rate:     s.cfg.Thin,
		}

		batch := mat.NewDense(s.cfg.Draws, NumParams, nil)
		mh.Sample(batch)

		chainMoved := 0
		prev := make([]float64, NumParams)
		for i := 0; i < s.cfg.Draws; i++ {
			row := batch.RawRowView(i)
			trace.Append(c, row)
			if i > 0 && !equalVec(prev, row) {
				chainMoved++
			}
			copy(prev, row)
		}

		accept := 0.0
		if s.cfg.Draws > 1 {
			accept = float64(chainMoved) / float64(s.cfg.Draws-1)
		}
		s.logger.Debug("chain finished",
			zap.Int("chain", c),
			zap.Int("draws", s.cfg.Draws),
			zap.Float64("accept_rate", accept),
		)

		moved += chainMoved
		total += s.cfg.Draws - 1
	}

	stats := Stats{
		Chains:        s.cfg.Chains,
		DrawsPerChain: s.cfg.Draws,
	}
	if total > 0 {
		stats.AcceptRate = float64(moved) / float64(total)
	}

	return trace, stats, nil
}

// equalVec reports whether two draws are identical, which for a continuous
// proposal happens only when the move was rejected.
func equalVec(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
