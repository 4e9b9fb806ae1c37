package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/survkit/survbayes/internal/dataset"
	"github.com/survkit/survbayes/internal/mcmc"
	"github.com/survkit/survbayes/internal/posterior"
	"github.com/survkit/survbayes/internal/survival"
)

func testResult(t *testing.T) *Result {
	t.Helper()

	obs := []survival.Observation{
		{Time: 5, Event: true, Group: 0},
		{Time: 8, Event: false, Group: 0},
		{Time: 3, Event: true, Group: 1},
		{Time: 12, Event: true, Group: 1},
	}
	ds := &dataset.Dataset{
		Name:          "toy",
		TimeUnit:      "months",
		CovariateName: "exposed",
		Label0:        "control",
		Label1:        "exposed",
		Obs:           obs,
	}

	tr := posterior.NewTrace(2, mcmc.ParamNames())
	tr.Append(0, []float64{0.1, -3, 0.4})
	tr.Append(0, []float64{0.2, -3.1, 0.5})
	tr.Append(1, []float64{0.15, -2.9, 0.45})
	tr.Append(1, []float64{0.05, -3.05, 0.35})

	grid := survival.TimeGrid(ds.MaxTime(), 5)

	return &Result{
		RunID:   NewRunID(),
		Dataset: ds,
		Groups: []dataset.GroupSummary{
			{Group: 0, Label: "control", N: 2, Events: 1, CensorRate: 0.5, MedianTime: 6.5},
			{Group: 1, Label: "exposed", N: 2, Events: 2, CensorRate: 0, MedianTime: 7.5},
		},
		KM: map[int]survival.Curve{
			0: survival.KaplanMeier(ds.ByGroup(0)),
			1: survival.KaplanMeier(ds.ByGroup(1)),
		},
		Params:      posterior.Summarize(tr),
		HazardRatio: posterior.HazardRatioSummary(tr, 1, 0),
		SurvBands: map[int]posterior.Band{
			0: posterior.SurvivalBand(tr, grid, 0),
			1: posterior.SurvivalBand(tr, grid, 1),
		},
		CoxSummary: "toy cox summary",
		Sampler:    mcmc.Stats{Chains: 2, DrawsPerChain: 2, AcceptRate: 0.5},
		Warnings:   []string{"example warning"},
		Grid:       grid,
		Trace:      tr,
	}
}

func TestGenerateWritesReportAndDraws(t *testing.T) {
	outDir := t.TempDir()
	gen := NewGenerator(outDir)

	files, err := gen.Generate(testResult(t))
	require.NoError(t, err)
	require.Len(t, files, 2)

	content, err := os.ReadFile(filepath.Join(outDir, "report-toy.md"))
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# Bayesian Weibull survival analysis: toy")
	assert.Contains(t, text, "## Dataset")
	assert.Contains(t, text, "## Kaplan-Meier estimates")
	assert.Contains(t, text, "## Posterior")
	assert.Contains(t, text, "## Hazard ratio")
	assert.Contains(t, text, "## Warnings")
	assert.Contains(t, text, "example warning")
	assert.Contains(t, text, "toy cox summary")
	assert.Contains(t, text, "| alpha |")
	assert.Contains(t, text, "| beta |")
}

func TestGenerateDrawsCSV(t *testing.T) {
	outDir := t.TempDir()
	gen := NewGenerator(outDir)
	res := testResult(t)

	_, err := gen.Generate(res)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(outDir, "draws.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// Header plus 2 chains x 2 draws.
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"chain", "draw", "log_alpha", "log_lambda", "beta"}, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "1", rows[3][0])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "toy-data", sanitizeFilename("Toy Data!"))
	assert.Equal(t, "unnamed", sanitizeFilename("///"))
}
