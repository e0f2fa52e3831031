package models

import "time"

// Round is one full cycle of matches, numbered from 1. Completed is a
// denormalized flag kept by the store; the rules package recomputes
// completion from match data and never trusts it, since the flag may be
// stale relative to just-submitted results.
type Round struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	Number       int       `json:"number"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`

	Matches []Match `json:"matches"`
}
