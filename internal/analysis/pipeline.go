package analysis

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/survkit/survbayes/internal/config"
	"github.com/survkit/survbayes/internal/dataset"
	"github.com/survkit/survbayes/internal/db"
	"github.com/survkit/survbayes/internal/freq"
	"github.com/survkit/survbayes/internal/mcmc"
	"github.com/survkit/survbayes/internal/posterior"
	"github.com/survkit/survbayes/internal/report"
	"github.com/survkit/survbayes/internal/survival"
)

// Pipeline runs the full analysis: load -> explore -> sample -> summarize.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Stats counts what each stage produced.
type Stats struct {
	Observations int
	Events       int
	Censored     int
	Chains       int
	Draws        int
}

func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

func (p *Pipeline) Run(ctx context.Context) (*report.Result, Stats, error) {
	var stats Stats

	database, err := db.GetDB()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to get database: %w", err)
	}

	ds, err := p.load(ctx, database)
	if err != nil {
		return nil, stats, err
	}
	stats.Observations = ds.N()
	stats.Events = ds.Events()
	stats.Censored = ds.Censored()

	if ds.Events() == 0 {
		return nil, stats, fmt.Errorf("dataset %s has no observed events", ds.Name)
	}

	groups, err := dataset.Summary(database, ds)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to summarize dataset: %w", err)
	}

	km := map[int]survival.Curve{
		0: survival.KaplanMeier(ds.ByGroup(0)),
		1: survival.KaplanMeier(ds.ByGroup(1)),
	}

	coxSummary, err := freq.CoxPH(ds)
	if err != nil {
		// The cross-check is advisory; the Bayesian fit proceeds without it.
		p.logger.Warn("Cox PH cross-check failed", zap.Error(err))
		coxSummary = ""
	}

	model := &mcmc.Model{Obs: ds.Obs, Priors: p.cfg.Priors}
	sampler, err := mcmc.NewSampler(p.cfg.Sampler, p.logger)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to configure sampler: %w", err)
	}

	trace, sampleStats, err := sampler.Run(ctx, model)
	if err != nil {
		return nil, stats, fmt.Errorf("sampling failed: %w", err)
	}
	stats.Chains = sampleStats.Chains
	stats.Draws = sampleStats.Chains * sampleStats.DrawsPerChain

	params := posterior.Summarize(trace)
	warnings := posterior.ConvergenceWarnings(params)

	grid := survival.TimeGrid(ds.MaxTime(), p.cfg.Report.GridPoints)
	bands := map[int]posterior.Band{
		0: posterior.SurvivalBand(trace, grid, 0),
		1: posterior.SurvivalBand(trace, grid, 1),
	}

	res := &report.Result{
		RunID:       report.NewRunID(),
		Dataset:     ds,
		Groups:      groups,
		KM:          km,
		Params:      params,
		HazardRatio: posterior.HazardRatioSummary(trace, 1, 0),
		SurvBands:   bands,
		CoxSummary:  coxSummary,
		Sampler:     sampleStats,
		Warnings:    warnings,
		Grid:        grid,
		Trace:       trace,
	}

	return res, stats, nil
}

func (p *Pipeline) load(ctx context.Context, database *sql.DB) (*dataset.Dataset, error) {
	switch p.cfg.Dataset.Name {
	case "heart":
		return dataset.LoadHeart(database)
	case "mastectomy":
		fetcher, err := dataset.NewFetcher(dataset.FetchConfig{
			BaseURL:  p.cfg.Dataset.URL,
			CacheDir: p.cfg.Dataset.CacheDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		return dataset.LoadMastectomy(ctx, database, fetcher)
	default:
		return nil, fmt.Errorf("unknown dataset %q", p.cfg.Dataset.Name)
	}
}
