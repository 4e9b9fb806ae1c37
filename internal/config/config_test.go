package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "mastectomy", cfg.Dataset.Name)
	assert.Equal(t, 4, cfg.Sampler.Chains)
	assert.Equal(t, 2000, cfg.Sampler.Draws)
	assert.Equal(t, "survbayes-out", cfg.Report.OutDir)
	assert.Equal(t, 100, cfg.Report.GridPoints)
	assert.Equal(t, 10.0, cfg.Priors.Beta.Sigma)
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Sampler, cfg.Sampler)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survbayes.yaml")
	content := `
dataset:
  name: heart
sampler:
  chains: 2
  draws: 500
  step: 0.3
priors:
  beta:
    mu: 0
    sigma: 2.5
report:
  outDir: /tmp/out
  plots: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "heart", cfg.Dataset.Name)
	assert.Equal(t, 2, cfg.Sampler.Chains)
	assert.Equal(t, 500, cfg.Sampler.Draws)
	assert.Equal(t, 0.3, cfg.Sampler.Step)
	assert.Equal(t, 2.5, cfg.Priors.Beta.Sigma)
	assert.True(t, cfg.Report.Plots)

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Sampler.BurnIn, cfg.Sampler.BurnIn)
	assert.Equal(t, Default().Priors.LogAlpha, cfg.Priors.LogAlpha)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SURVBAYES_RDATASETS_URL", "http://mirror.example/csv")
	t.Setenv("SURVBAYES_CACHE_DIR", "/tmp/cache")
	t.Setenv("SURVBAYES_OUT_DIR", "/tmp/envout")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.example/csv", cfg.Dataset.URL)
	assert.Equal(t, "/tmp/cache", cfg.Dataset.CacheDir)
	assert.Equal(t, "/tmp/envout", cfg.Report.OutDir)
}

func TestValidation(t *testing.T) {
	t.Run("unknown dataset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dataset:\n  name: lung\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad grid points", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report:\n  gridPoints: 1\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("non-positive prior sigma", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("priors:\n  beta:\n    sigma: -1\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
