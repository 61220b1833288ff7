// Package stats turns the warehouse's play-by-play tables into QB and
// skill-position leaderboards, trends and comparisons.
package stats

import (
	"database/sql"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// QueryObserver records warehouse query latency. *metrics.Metrics
// satisfies it.
type QueryObserver interface {
	ObserveQuery(query string, duration time.Duration)
}

// Service runs the analytics queries against a warehouse.
type Service struct {
	wh       *warehouse.Warehouse
	observer QueryObserver
	logger   *slog.Logger
}

// New constructs a stats service. The observer and logger may be nil.
func New(wh *warehouse.Warehouse, observer QueryObserver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{wh: wh, observer: observer, logger: logger}
}

// observe reports one finished query to the observer. Meant to be
// deferred with the start time captured at the call site.
func (s *Service) observe(name string, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveQuery(name, time.Since(start))
}

// queryBuilder collects bind arguments while emitting dialect-correct
// placeholders, so the same SQL templates serve DuckDB and Postgres.
type queryBuilder struct {
	ph   func(int) string
	args []any
}

func newQueryBuilder(ph func(int) string) *queryBuilder {
	return &queryBuilder{ph: ph}
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.ph(len(b.args))
}

func (b *queryBuilder) bindInts(vals []int) string {
	phs := make([]string, len(vals))
	for i, v := range vals {
		phs[i] = b.bind(v)
	}
	return strings.Join(phs, ", ")
}

func (b *queryBuilder) bindStrings(vals []string) string {
	phs := make([]string, len(vals))
	for i, v := range vals {
		phs[i] = b.bind(v)
	}
	return strings.Join(phs, ", ")
}

// passerRating computes the NFL passer rating from season totals. Each of
// the four components is clamped to [0, 2.375] before averaging.
func passerRating(attempts, completions int, yards float64, tds, interceptions int) float64 {
	if attempts == 0 {
		return 0
	}
	att := float64(attempts)
	a := clampRatingComponent((float64(completions)/att - 0.3) * 5)
	b := clampRatingComponent((yards/att - 3) * 0.25)
	c := clampRatingComponent(float64(tds) / att * 20)
	d := clampRatingComponent(2.375 - float64(interceptions)/att*25)
	return round1((a + b + c + d) / 6 * 100)
}

func clampRatingComponent(v float64) float64 {
	return math.Min(math.Max(v, 0), 2.375)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// pct converts a numerator/denominator pair to a percentage rounded to one
// decimal, returning 0 for an empty denominator.
func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round1(num / den * 100)
}

// per divides rounded to one decimal, returning 0 for an empty denominator.
func per(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round1(num / den)
}

func nullableRound3(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	r := round3(v.Float64)
	return &r
}

func nullablePct(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	r := round1(v.Float64 * 100)
	return &r
}
