// Package pairing produces the match slots for a new round. The generators
// here are deliberately plain: a circle-method schedule for round-robin
// play and a shuffled draw for everything else. Competitive pairing systems
// (Swiss, McMahon, elimination seeding) are out of scope; organizers using
// those formats get a random draw and adjust by hand.
package pairing

import (
	"context"

	"github.com/gobanhq/tournament-server/models"
)

// Pairing is a single generated match slot. Player2ID is nil for a bye.
type Pairing struct {
	Player1ID *int
	Player2ID *int
}

type GenerateParams struct {
	Tournament  *models.Tournament
	Players     []models.Player
	RoundNumber int
}

type Generator interface {
	GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error)

	Name() string
}

// ForFormat picks the generator for a tournament format.
func ForFormat(format models.TournamentFormat) Generator {
	if format == models.FormatRoundRobin {
		return NewRoundRobinGenerator()
	}
	return NewRandomGenerator()
}
