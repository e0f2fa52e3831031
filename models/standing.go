package models

// StandingRow is one line of a tournament standings table. The shape is an
// explicit record validated at the boundary rather than a loose map: every
// field is always populated.
type StandingRow struct {
	Rank       int     `json:"rank"`
	Player     Player  `json:"player"`
	Score      float64 `json:"score"`
	GamePoints float64 `json:"game_points"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
}
