package models

import "time"

// Match is a single pairing inside a round. Either player slot may be nil,
// which denotes a bye or a not-yet-determined opponent. A match is decided
// iff WinnerID is set; WinnerID must then equal one of the present player
// slots.
type Match struct {
	ID        int       `json:"id"`
	RoundID   int       `json:"round_id"`
	Player1ID *int      `json:"player1_id,omitempty"`
	Player2ID *int      `json:"player2_id,omitempty"`
	WinnerID  *int      `json:"winner_id,omitempty"`
	Score     *string   `json:"score,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Loaded on demand, not mapped directly.
	Player1 *Player `json:"player1,omitempty"`
	Player2 *Player `json:"player2,omitempty"`
}

// Decided reports whether a result has been recorded.
func (m *Match) Decided() bool {
	return m != nil && m.WinnerID != nil
}

// Participants returns the IDs of the present player slots, filtering out
// byes and undetermined opponents.
func (m *Match) Participants() []int {
	if m == nil {
		return nil
	}
	ids := make([]int, 0, 2)
	if m.Player1ID != nil {
		ids = append(ids, *m.Player1ID)
	}
	if m.Player2ID != nil {
		ids = append(ids, *m.Player2ID)
	}
	return ids
}
