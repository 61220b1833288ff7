// Package common holds request parsing and response helpers shared by the
// API feature packages.
package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gridiron-labs/gridstats/internal/nflverse"
)

// JSON writes v as a JSON response.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ParseSeasons parses a seasons query parameter. Accepts single years,
// comma lists and inclusive ranges, mixed: "2023", "2020,2022", "2018-2021".
// Every year must fall inside the published nflverse range.
func ParseSeasons(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}

	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(from))
			if err != nil {
				return nil, fmt.Errorf("invalid season range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(to))
			if err != nil {
				return nil, fmt.Errorf("invalid season range %q", part)
			}
			if end < start {
				return nil, fmt.Errorf("invalid season range %q: end before start", part)
			}
			if err := nflverse.ValidateSeason(start); err != nil {
				return nil, err
			}
			if err := nflverse.ValidateSeason(end); err != nil {
				return nil, err
			}
			for y := start; y <= end; y++ {
				seasons = append(seasons, y)
			}
			continue
		}

		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q", part)
		}
		if err := nflverse.ValidateSeason(year); err != nil {
			return nil, err
		}
		seasons = append(seasons, year)
	}
	return seasons, nil
}

// ParseList splits a comma-separated query parameter, trimming blanks.
func ParseList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseInt parses an optional integer query parameter, returning def when
// the parameter is absent.
func ParseInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

// ParseSeason parses a mandatory single-season parameter.
func ParseSeason(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("a season is required")
	}
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid season %q", raw)
	}
	if err := nflverse.ValidateSeason(year); err != nil {
		return 0, err
	}
	return year, nil
}
