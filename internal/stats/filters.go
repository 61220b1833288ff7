package stats

import (
	"fmt"
	"slices"
	"strings"
)

// Season type filters. SeasonTypeBoth disables the filter.
const (
	SeasonTypeRegular = "REG"
	SeasonTypePost    = "POST"
	SeasonTypeBoth    = "both"
)

// Default thresholds for the leaderboard queries.
const (
	DefaultQBMinAttempts        = 100
	DefaultQBCompareMinAttempts = 200
	DefaultQBListMinAttempts    = 50
	DefaultSkillMinTouches      = 50
	DefaultSkillCompareTouches  = 75
	DefaultSkillListMinTouches  = 25
)

var validPositions = []string{"WR", "TE", "RB"}

// QBFilter narrows the quarterback leaderboard queries.
type QBFilter struct {
	Seasons     []int
	MinAttempts int
	SeasonType  string
	Teams       []string
}

// Validate checks the filter and applies defaults in place.
func (f *QBFilter) Validate() error {
	if len(f.Seasons) == 0 {
		return fmt.Errorf("at least one season is required")
	}
	if f.MinAttempts <= 0 {
		f.MinAttempts = DefaultQBMinAttempts
	}
	return normalizeSeasonType(&f.SeasonType)
}

// SkillFilter narrows the skill-position leaderboard queries.
type SkillFilter struct {
	Seasons    []int
	Positions  []string
	MinTouches int
	SeasonType string
	Teams      []string
}

// Validate checks the filter and applies defaults in place. The position
// list is expanded so that selecting WR also covers TE, matching how
// tight ends are grouped with receivers upstream. An empty position list
// is valid and matches no rows.
func (f *SkillFilter) Validate() error {
	if len(f.Seasons) == 0 {
		return fmt.Errorf("at least one season is required")
	}
	for _, p := range f.Positions {
		if !slices.Contains(validPositions, p) {
			return fmt.Errorf("unknown position %q: valid positions are %s", p, strings.Join(validPositions, ", "))
		}
	}
	f.Positions = ExpandPositions(f.Positions)
	if f.MinTouches <= 0 {
		f.MinTouches = DefaultSkillMinTouches
	}
	return normalizeSeasonType(&f.SeasonType)
}

// ExpandPositions adds TE whenever WR is selected.
func ExpandPositions(positions []string) []string {
	expanded := slices.Clone(positions)
	if slices.Contains(expanded, "WR") && !slices.Contains(expanded, "TE") {
		expanded = append(expanded, "TE")
	}
	return expanded
}

func normalizeSeasonType(st *string) error {
	switch *st {
	case "":
		*st = SeasonTypeRegular
		return nil
	case SeasonTypeRegular, SeasonTypePost, SeasonTypeBoth:
		return nil
	default:
		return fmt.Errorf("unknown season type %q: use REG, POST or both", *st)
	}
}
