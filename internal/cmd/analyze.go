package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/survkit/survbayes/internal/analysis"
	"github.com/survkit/survbayes/internal/config"
	"github.com/survkit/survbayes/internal/plot"
	"github.com/survkit/survbayes/internal/report"
)

var (
	analyzeDataset string
	analyzeOut     string
	analyzeConfig  string
	analyzeChains  int
	analyzeDraws   int
	analyzeBurnIn  int
	analyzeThin    int
	analyzeStep    float64
	analyzeSeed    uint64
	analyzePlots   bool
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fit the Bayesian Weibull proportional-hazards model to a dataset",
	Long: `Fit a Weibull proportional-hazards model with a censoring-aware
likelihood to one of the built-in datasets, sample the posterior with
Metropolis-Hastings, and write a markdown report, posterior draws and
optional plots.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeDataset, "dataset", "d", "", "Dataset to analyze: mastectomy or heart (default: mastectomy)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output directory (default: survbayes-out)")
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "Path to a yaml config file")
	analyzeCmd.Flags().IntVar(&analyzeChains, "chains", 0, "Number of MCMC chains")
	analyzeCmd.Flags().IntVar(&analyzeDraws, "draws", 0, "Posterior draws per chain")
	analyzeCmd.Flags().IntVar(&analyzeBurnIn, "burnin", -1, "Burn-in draws discarded per chain")
	analyzeCmd.Flags().IntVar(&analyzeThin, "thin", 0, "Keep every n-th draw")
	analyzeCmd.Flags().Float64Var(&analyzeStep, "step", 0, "Random-walk proposal step size")
	analyzeCmd.Flags().Uint64Var(&analyzeSeed, "seed", 0, "Random seed (0 = config default)")
	analyzeCmd.Flags().BoolVar(&analyzePlots, "plots", false, "Also render PNG plots")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Log sampler diagnostics")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(analyzeConfig)
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)

	logger := zap.NewNop()
	if analyzeVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()
	}

	fmt.Printf("Analyzing dataset: %s\n", cfg.Dataset.Name)
	fmt.Printf("Output directory: %s\n", cfg.Report.OutDir)
	fmt.Printf("Sampler: %d chains x %d draws (burn-in %d, thin %d, step %.3f)\n",
		cfg.Sampler.Chains, cfg.Sampler.Draws, cfg.Sampler.BurnIn, cfg.Sampler.Thin, cfg.Sampler.Step)

	pipeline := analysis.New(cfg, logger)
	res, stats, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d observations (%d events, %d censored)\n",
		stats.Observations, stats.Events, stats.Censored)
	fmt.Printf("Sampled %d total draws across %d chains (acceptance %.2f)\n",
		stats.Draws, stats.Chains, res.Sampler.AcceptRate)

	for _, p := range res.Params {
		fmt.Printf("  %-8s mean %.4f  95%% CI [%.4f, %.4f]  R-hat %.3f\n",
			p.Name, p.Mean, p.Q2_5, p.Q97_5, p.RHat)
	}
	fmt.Printf("Hazard ratio (%s vs %s): %.3f [%.3f, %.3f]\n",
		res.Dataset.Label1, res.Dataset.Label0,
		res.HazardRatio.Mean, res.HazardRatio.Q2_5, res.HazardRatio.Q97_5)

	for _, w := range res.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}

	gen := report.NewGenerator(cfg.Report.OutDir)
	files, err := gen.Generate(res)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if cfg.Report.Plots {
		plotFiles, err := renderPlots(cfg.Report.OutDir, res)
		if err != nil {
			return fmt.Errorf("failed to render plots: %w", err)
		}
		files = append(files, plotFiles...)
	}

	fmt.Printf("Wrote %d files:\n", len(files))
	for _, f := range files {
		fmt.Printf("  - %s\n", f)
	}

	return nil
}

func renderPlots(outDir string, res *report.Result) ([]string, error) {
	var files []string

	kmPath, err := plot.KaplanMeier(outDir, res.Dataset, res.KM)
	if err != nil {
		return nil, err
	}
	files = append(files, kmPath)

	bandPath, err := plot.SurvivalBands(outDir, res.Dataset, res.SurvBands)
	if err != nil {
		return nil, err
	}
	files = append(files, bandPath)

	tracePaths, err := plot.Traces(outDir, res.Trace)
	if err != nil {
		return nil, err
	}
	files = append(files, tracePaths...)

	hrPath, err := plot.HazardRatioHist(outDir, res.Trace)
	if err != nil {
		return nil, err
	}
	files = append(files, hrPath)

	return files, nil
}

func applyAnalyzeFlags(cfg *config.Config) {
	if analyzeDataset != "" {
		cfg.Dataset.Name = analyzeDataset
	}
	if analyzeOut != "" {
		cfg.Report.OutDir = analyzeOut
	}
	if analyzeChains > 0 {
		cfg.Sampler.Chains = analyzeChains
	}
	if analyzeDraws > 0 {
		cfg.Sampler.Draws = analyzeDraws
	}
	if analyzeBurnIn >= 0 {
		cfg.Sampler.BurnIn = analyzeBurnIn
	}
	if analyzeThin > 0 {
		cfg.Sampler.Thin = analyzeThin
	}
	if analyzeStep > 0 {
		cfg.Sampler.Step = analyzeStep
	}
	if analyzeSeed > 0 {
		cfg.Sampler.Seed = analyzeSeed
	}
	if analyzePlots {
		cfg.Report.Plots = true
	}
}
