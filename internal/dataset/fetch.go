package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "https://vincentarelbundock.github.io/Rdatasets/csv"

// Fetcher downloads CSV files from the Rdatasets mirror and caches them on
// disk so DuckDB can ingest them with read_csv_auto.
type Fetcher struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
}

type FetchConfig struct {
	BaseURL  string
	CacheDir string
	Timeout  time.Duration
}

func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("SURVBAYES_RDATASETS_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = os.Getenv("SURVBAYES_CACHE_DIR")
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "survbayes")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Fetcher{
		baseURL:    baseURL,
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch downloads <baseURL>/<pkg>/<name>.csv and returns the path of the
// cached local copy. An existing cache file is reused without a request.
func (f *Fetcher) Fetch(ctx context.Context, pkg, name string) (string, error) {
	local := filepath.Join(f.cacheDir, fmt.Sprintf("%s_%s.csv", pkg, name))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	url := fmt.Sprintf("%s/%s/%s.csv", f.baseURL, pkg, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("rdatasets error: status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("rdatasets returned empty body for %s", url)
	}

	if err := os.WriteFile(local, body, 0644); err != nil {
		return "", fmt.Errorf("failed to cache dataset: %w", err)
	}

	return local, nil
}
