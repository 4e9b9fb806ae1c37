package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/survkit/survbayes/internal/mcmc"
)

// Config is the full analysis configuration. Precedence is flags > env >
// file > defaults; the file and env layers live here, flags are applied by
// the command layer.
type Config struct {
	Dataset struct {
		Name     string `yaml:"name"`
		URL      string `yaml:"url"`
		CacheDir string `yaml:"cacheDir"`
	} `yaml:"dataset"`

	Sampler mcmc.Config `yaml:"sampler"`
	Priors  mcmc.Priors `yaml:"priors"`

	Report struct {
		OutDir     string `yaml:"outDir"`
		Plots      bool   `yaml:"plots"`
		GridPoints int    `yaml:"gridPoints"`
	} `yaml:"report"`
}

func Default() *Config {
	cfg := &Config{
		Sampler: mcmc.DefaultConfig(),
		Priors:  mcmc.DefaultPriors(),
	}
	cfg.Dataset.Name = "mastectomy"
	cfg.Report.OutDir = "survbayes-out"
	cfg.Report.GridPoints = 100
	return cfg
}

// Load reads a yaml config over the defaults. An empty path returns the
// defaults with env overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SURVBAYES_RDATASETS_URL"); v != "" {
		c.Dataset.URL = v
	}
	if v := os.Getenv("SURVBAYES_CACHE_DIR"); v != "" {
		c.Dataset.CacheDir = v
	}
	if v := os.Getenv("SURVBAYES_OUT_DIR"); v != "" {
		c.Report.OutDir = v
	}
}

func (c *Config) validate() error {
	switch c.Dataset.Name {
	case "mastectomy", "heart":
	default:
		return fmt.Errorf("unknown dataset %q (want mastectomy or heart)", c.Dataset.Name)
	}
	if c.Report.GridPoints < 2 {
		return fmt.Errorf("report.gridPoints must be at least 2, got %d", c.Report.GridPoints)
	}
	if c.Priors.LogAlpha.Sigma <= 0 || c.Priors.LogLambda.Sigma <= 0 || c.Priors.Beta.Sigma <= 0 {
		return fmt.Errorf("prior sigmas must be positive")
	}
	return nil
}
