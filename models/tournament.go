package models

import "time"

// TournamentStatus values match the ENUM in the database. Transitions are
// one-directional: not_started -> ongoing -> ended.
type TournamentStatus string

const (
	StatusNotStarted TournamentStatus = "not_started"
	StatusOngoing    TournamentStatus = "ongoing"
	StatusEnded      TournamentStatus = "ended"
)

// TournamentFormat values match the ENUM in the database.
type TournamentFormat string

const (
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatSwiss             TournamentFormat = "swiss"
	FormatMcMahon           TournamentFormat = "mcmahon"
)

// Tournament is the root aggregate. Rounds is append-only and ordered by
// number; the current round is always the last element. WinnerID is set
// once when the tournament ends.
type Tournament struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Format      TournamentFormat `json:"format"`
	Status      TournamentStatus `json:"status"`
	OrganizerID int              `json:"organizer_id"`
	WinnerID    *int             `json:"winner_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	LogoKey     *string          `json:"-" db:"logo_key"`
	LogoURL     *string          `json:"logo_url,omitempty" db:"-"`

	// Related entities, loaded by the snapshot assembler.
	Players []Player `json:"players,omitempty"`
	Rounds  []Round  `json:"rounds,omitempty"`
}

// CurrentRound returns the last (most recent) round, or nil when no rounds
// have been generated yet.
func (t *Tournament) CurrentRound() *Round {
	if t == nil || len(t.Rounds) == 0 {
		return nil
	}
	return &t.Rounds[len(t.Rounds)-1]
}

func IsValidTournamentFormat(f TournamentFormat) bool {
	switch f {
	case FormatRoundRobin, FormatSingleElimination, FormatDoubleElimination, FormatSwiss, FormatMcMahon:
		return true
	}
	return false
}

func IsValidTournamentStatus(s TournamentStatus) bool {
	switch s {
	case StatusNotStarted, StatusOngoing, StatusEnded:
		return true
	}
	return false
}
