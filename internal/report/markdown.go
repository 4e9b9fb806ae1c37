package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/survkit/survbayes/internal/dataset"
	"github.com/survkit/survbayes/internal/mcmc"
	"github.com/survkit/survbayes/internal/posterior"
	"github.com/survkit/survbayes/internal/survival"
)

// Result collects everything one analysis run produced.
type Result struct {
	RunID       string
	Dataset     *dataset.Dataset
	Groups      []dataset.GroupSummary
	KM          map[int]survival.Curve
	Params      []posterior.ParamSummary
	HazardRatio posterior.IntervalSummary
	SurvBands   map[int]posterior.Band
	CoxSummary  string
	Sampler     mcmc.Stats
	Warnings    []string
	Grid        []float64
	Trace       *posterior.Trace
}

// NewRunID returns the identifier stamped on the report and draw file of one
// run.
func NewRunID() string {
	return uuid.NewString()
}

type Generator struct {
	outDir string
}

func NewGenerator(outDir string) *Generator {
	return &Generator{outDir: outDir}
}

// Generate writes the markdown report and the posterior draw CSV, returning
// the written paths.
func (g *Generator) Generate(res *Result) ([]string, error) {
	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []string

	reportPath := filepath.Join(g.outDir, fmt.Sprintf("report-%s.md", sanitizeFilename(res.Dataset.Name)))
	if err := os.WriteFile(reportPath, []byte(g.renderReport(res)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	files = append(files, reportPath)

	drawsPath := filepath.Join(g.outDir, "draws.csv")
	if err := writeDraws(drawsPath, res.Trace); err != nil {
		return nil, err
	}
	files = append(files, drawsPath)

	return files, nil
}

func (g *Generator) renderReport(res *Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Bayesian Weibull survival analysis: %s\n\n", res.Dataset.Name))
	sb.WriteString(fmt.Sprintf("**Run:** %s\n", res.RunID))
	sb.WriteString(fmt.Sprintf("**Covariate:** %s\n", res.Dataset.CovariateName))
	sb.WriteString(fmt.Sprintf("**Observations:** %d (%d events, %d censored)\n\n",
		res.Dataset.N(), res.Dataset.Events(), res.Dataset.Censored()))

	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| group | n | events | censored | median time |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, gs := range res.Groups {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.0f%% | %.1f %s |\n",
			gs.Label, gs.N, gs.Events, gs.CensorRate*100, gs.MedianTime, res.Dataset.TimeUnit))
	}
	sb.WriteString("\n")

	sb.WriteString("## Kaplan-Meier estimates\n\n")
	for grp := 0; grp <= 1; grp++ {
		curve, ok := res.KM[grp]
		if !ok || len(curve.Times) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", res.Dataset.GroupLabel(grp)))
		sb.WriteString(fmt.Sprintf("| time (%s) | at risk | deaths | S(t) | 95%% CI |\n", res.Dataset.TimeUnit))
		sb.WriteString("|---|---|---|---|---|\n")
		for i := range curve.Times {
			sb.WriteString(fmt.Sprintf("| %.1f | %d | %d | %.3f | [%.3f, %.3f] |\n",
				curve.Times[i], curve.AtRisk[i], curve.Deaths[i], curve.Prob[i], curve.Lower[i], curve.Upper[i]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Posterior\n\n")
	sb.WriteString(fmt.Sprintf("Sampled %d chains x %d draws, acceptance rate %.2f.\n\n",
		res.Sampler.Chains, res.Sampler.DrawsPerChain, res.Sampler.AcceptRate))
	sb.WriteString("| parameter | mean | sd | 2.5% | median | 97.5% | R-hat | ESS |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, p := range res.Params {
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %.3f | %.0f |\n",
			p.Name, p.Mean, p.SD, p.Q2_5, p.Median, p.Q97_5, p.RHat, p.ESS))
	}
	sb.WriteString("\n")

	sb.WriteString("## Hazard ratio\n\n")
	sb.WriteString(fmt.Sprintf("Posterior hazard ratio of %s vs %s: **%.3f** (95%% CI [%.3f, %.3f], median %.3f).\n",
		res.Dataset.Label1, res.Dataset.Label0,
		res.HazardRatio.Mean, res.HazardRatio.Q2_5, res.HazardRatio.Q97_5, res.HazardRatio.Median))
	sb.WriteString("Under proportional hazards the ratio is constant in time.\n\n")

	if len(res.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	if res.CoxSummary != "" {
		sb.WriteString("## Cox proportional-hazards cross-check\n\n")
		sb.WriteString("```\n")
		sb.WriteString(strings.TrimRight(res.CoxSummary, "\n"))
		sb.WriteString("\n```\n")
	}

	return sb.String()
}

func writeDraws(path string, tr *posterior.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create draws file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"chain", "draw"}, tr.ParamNames()...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write draws header: %w", err)
	}

	for c := 0; c < tr.Chains(); c++ {
		cols := make([][]float64, len(tr.ParamNames()))
		for p := range cols {
			cols[p] = tr.ChainParam(c, p)
		}
		for i := 0; i < len(cols[0]); i++ {
			row := []string{strconv.Itoa(c), strconv.Itoa(i)}
			for p := range cols {
				row = append(row, strconv.FormatFloat(cols[p][i], 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write draw row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush draws file: %w", err)
	}
	return nil
}

func sanitizeFilename(s string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	result := reg.ReplaceAllString(s, "-")
	result = strings.Trim(result, "-")
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "unnamed"
	}
	return strings.ToLower(result)
}
