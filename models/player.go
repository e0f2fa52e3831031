package models

import "time"

// Player is an enrolled competitor. Rank is a free-form grading label
// ("5d", "3k", "1p"); it is never parsed, only displayed.
type Player struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Rank      string    `json:"rank"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	AvatarKey *string   `json:"-" db:"avatar_key"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"-"`
}
