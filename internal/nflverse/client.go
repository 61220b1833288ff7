// Package nflverse downloads play-by-play and roster CSVs from the
// nflverse-data GitHub releases and caches them locally.
package nflverse

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL     = "https://github.com/nflverse/nflverse-data/releases/download"
	defaultHTTPTimeout = 5 * time.Minute
	defaultConcurrency = 4
)

// Config controls how the client reaches the upstream releases.
type Config struct {
	BaseURL     string
	CacheDir    string
	HTTPClient  *http.Client
	MaxAttempts int
	Backoff     time.Duration
	Concurrency int
	Logger      *slog.Logger
}

// Client fetches nflverse release assets into a local cache directory.
type Client struct {
	baseURL     string
	cacheDir    string
	httpClient  httpDoer
	maxAttempts int
	backoffFn   backoffFunc
	concurrency int
	logger      *slog.Logger
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:     normalizeBaseURL(cfg.BaseURL),
		cacheDir:    resolveCacheDir(cfg.CacheDir),
		httpClient:  resolveHTTPClient(cfg.HTTPClient),
		maxAttempts: resolveMaxAttempts(cfg.MaxAttempts),
		backoffFn:   resolveBackoff(cfg.Backoff),
		concurrency: resolveConcurrency(cfg.Concurrency),
		logger:      resolveLogger(cfg.Logger),
	}
}

// Fetch downloads one season of a dataset and returns the path of the cached
// CSV. A previously cached file is reused unless refresh is set.
func (c *Client) Fetch(ctx context.Context, dataset Dataset, season int, refresh bool) (string, error) {
	if err := ValidateSeason(season); err != nil {
		return "", err
	}

	name, err := dataset.cacheName(season)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(c.cacheDir, name)

	if !refresh {
		if _, statErr := os.Stat(dest); statErr == nil {
			c.logger.Debug("using cached dataset", "dataset", dataset, "season", season, "path", dest)
			return dest, nil
		}
	}

	url, err := c.SourceURL(dataset, season)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.download(ctx, url, dest, dataset.compressed())
		if err == nil {
			c.logger.Info("downloaded dataset", "dataset", dataset, "season", season, "path", dest)
			return dest, nil
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("dataset download retry",
			"dataset", dataset, "season", season,
			"attempt", attempt, "max_attempts", c.maxAttempts, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.backoffFn(attempt)):
		}
	}

	return "", fmt.Errorf("failed to fetch %s for season %d: %w", dataset, season, lastErr)
}

// SourceURL returns the release-asset URL a dataset season downloads from.
func (c *Client) SourceURL(dataset Dataset, season int) (string, error) {
	asset, err := dataset.assetPath(season)
	if err != nil {
		return "", err
	}
	return c.baseURL + "/" + asset, nil
}

// FetchSeasons downloads several seasons of a dataset concurrently and
// returns a season-to-path map. The first failure cancels the rest.
func (c *Client) FetchSeasons(ctx context.Context, dataset Dataset, seasons []int, refresh bool) (map[int]string, error) {
	paths := make(map[int]string, len(seasons))
	results := make([]string, len(seasons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, season := range seasons {
		g.Go(func() error {
			path, err := c.Fetch(gctx, dataset, season, refresh)
			if err != nil {
				return err
			}
			results[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, season := range seasons {
		paths[season] = results[i]
	}
	return paths, nil
}

// download streams one asset to dest, decompressing gzip when needed. The
// write goes through a temp file so a failed download never clobbers a
// good cache entry.
func (c *Client) download(ctx context.Context, url, dest string, compressed bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, strings.TrimSpace(string(body)))
	}

	var src io.Reader = resp.Body
	if compressed {
		gz, gzErr := gzip.NewReader(resp.Body)
		if gzErr != nil {
			return fmt.Errorf("failed to open gzip stream: %w", gzErr)
		}
		defer gz.Close()
		src = gz
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
