package nflverse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 500 * time.Millisecond
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type backoffFunc func(attempt int) time.Duration

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func resolveCacheDir(dir string) string {
	if dir == "" {
		return "data"
	}
	return dir
}

func resolveMaxAttempts(n int) int {
	if n <= 0 {
		return defaultRetryAttempts
	}
	return n
}

func resolveBackoff(backoff time.Duration) backoffFunc {
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * backoff
	}
}

func resolveConcurrency(n int) int {
	if n <= 0 {
		return defaultConcurrency
	}
	return n
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
