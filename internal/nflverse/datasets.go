package nflverse

import "fmt"

// Seasons for which nflverse publishes play-by-play data.
const (
	MinSeason = 1999
	MaxSeason = 2025
)

// Dataset identifies one of the nflverse release assets we know how to fetch.
type Dataset string

const (
	DatasetPlays   Dataset = "plays"
	DatasetRosters Dataset = "rosters"
)

// ValidateSeason checks that a season falls inside the published range.
func ValidateSeason(season int) error {
	if season < MinSeason || season > MaxSeason {
		return fmt.Errorf("season %d out of range: nflverse publishes %d-%d", season, MinSeason, MaxSeason)
	}
	return nil
}

// assetPath returns the release-relative path of a dataset for one season.
// Play-by-play assets are gzipped, roster assets are plain CSV.
func (d Dataset) assetPath(season int) (string, error) {
	switch d {
	case DatasetPlays:
		return fmt.Sprintf("pbp/play_by_play_%d.csv.gz", season), nil
	case DatasetRosters:
		return fmt.Sprintf("rosters/roster_%d.csv", season), nil
	default:
		return "", fmt.Errorf("unknown dataset %q", d)
	}
}

// cacheName returns the local (always-uncompressed) cache filename.
func (d Dataset) cacheName(season int) (string, error) {
	switch d {
	case DatasetPlays:
		return fmt.Sprintf("play_by_play_%d.csv", season), nil
	case DatasetRosters:
		return fmt.Sprintf("roster_%d.csv", season), nil
	default:
		return "", fmt.Errorf("unknown dataset %q", d)
	}
}

func (d Dataset) compressed() bool {
	return d == DatasetPlays
}
