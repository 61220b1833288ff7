package stats

// QBSeason is one quarterback's aggregated passing line for a season.
type QBSeason struct {
	Season         int      `json:"season"`
	Name           string   `json:"qb_name"`
	Team           string   `json:"team"`
	Attempts       int      `json:"attempts"`
	Completions    int      `json:"completions"`
	CompletionPct  float64  `json:"completion_pct"`
	PassingYards   float64  `json:"passing_yards"`
	YardsPerAtt    float64  `json:"yards_per_attempt"`
	PassingTDs     int      `json:"passing_tds"`
	Interceptions  int      `json:"interceptions"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct float64  `json:"success_rate"`
	PasserRating   float64  `json:"passer_rating"`
}

// QBTrend is one season/team point in a quarterback's career line.
type QBTrend struct {
	Season         int      `json:"season"`
	Team           string   `json:"team"`
	Attempts       int      `json:"attempts"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct float64  `json:"success_rate"`
	PassingYards   float64  `json:"passing_yards"`
	PassingTDs     int      `json:"passing_tds"`
	Interceptions  int      `json:"interceptions"`
}

// QBComparison ranks quarterbacks against each other within one season.
type QBComparison struct {
	Name           string   `json:"qb_name"`
	Team           string   `json:"team"`
	Attempts       int      `json:"attempts"`
	PassingYards   float64  `json:"passing_yards"`
	PassingTDs     int      `json:"passing_tds"`
	Interceptions  int      `json:"interceptions"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct float64  `json:"success_rate"`
	YardsPerAtt    float64  `json:"yards_per_attempt"`
	EPARank        int      `json:"epa_rank"`
	SuccessRank    int      `json:"success_rank"`
}

// SkillSeason is one skill-position player's combined receiving and
// rushing line for a season.
type SkillSeason struct {
	Season         int      `json:"season"`
	Name           string   `json:"player_name"`
	Team           string   `json:"team"`
	Position       string   `json:"position_group"`
	Targets        int      `json:"targets"`
	Receptions     int      `json:"receptions"`
	CatchRatePct   float64  `json:"catch_rate"`
	ReceivingYards float64  `json:"receiving_yards"`
	YardsPerCatch  float64  `json:"yards_per_reception"`
	YardsPerTarget float64  `json:"yards_per_target"`
	ReceivingTDs   int      `json:"receiving_tds"`
	Rushes         int      `json:"rushes"`
	RushingYards   float64  `json:"rushing_yards"`
	YardsPerCarry  float64  `json:"yards_per_carry"`
	RushingTDs     int      `json:"rushing_tds"`
	TotalTouches   int      `json:"total_touches"`
	TotalYards     float64  `json:"total_yards"`
	TotalTDs       int      `json:"total_tds"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct *float64 `json:"success_rate"`
}

// SkillComparison ranks skill-position players within one season.
type SkillComparison struct {
	Name           string   `json:"player_name"`
	Team           string   `json:"team"`
	Position       string   `json:"position_group"`
	TotalTouches   int      `json:"total_touches"`
	Targets        int      `json:"targets"`
	Receptions     int      `json:"receptions"`
	ReceivingYards float64  `json:"receiving_yards"`
	ReceivingTDs   int      `json:"receiving_tds"`
	Rushes         int      `json:"rushes"`
	RushingYards   float64  `json:"rushing_yards"`
	RushingTDs     int      `json:"rushing_tds"`
	TotalYards     float64  `json:"total_yards"`
	TotalTDs       int      `json:"total_tds"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct *float64 `json:"success_rate"`
	EPARank        int      `json:"epa_rank"`
	SuccessRank    int      `json:"success_rank"`
	YardsRank      int      `json:"yards_rank"`
}

// SkillTrend is one season/team point in a skill player's career line.
type SkillTrend struct {
	Season         int      `json:"season"`
	Team           string   `json:"team"`
	Targets        int      `json:"targets"`
	ReceivingYards float64  `json:"receiving_yards"`
	ReceivingTDs   int      `json:"receiving_tds"`
	Rushes         int      `json:"rushes"`
	RushingYards   float64  `json:"rushing_yards"`
	RushingTDs     int      `json:"rushing_tds"`
	TotalTouches   int      `json:"total_touches"`
	TotalYards     float64  `json:"total_yards"`
	TotalTDs       int      `json:"total_tds"`
	AvgEPA         *float64 `json:"avg_epa"`
	SuccessRatePct *float64 `json:"success_rate"`
}

// SkillPlayer is a catalog entry naming a skill player and which side of
// the ball most of their touches come from.
type SkillPlayer struct {
	Name             string `json:"player_name"`
	ReceivingTouches int    `json:"total_receiving"`
	RushingTouches   int    `json:"total_rushing"`
	TotalTouches     int    `json:"total_touches"`
	PrimaryPosition  string `json:"primary_position"`
}
