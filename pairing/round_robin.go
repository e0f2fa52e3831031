package pairing

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// GeneratePairings returns the pairings of one round-robin round using the
// circle method: player 0 stays fixed while the rest rotate one position
// per round. With an odd player count a phantom slot is added and whoever
// draws it gets a bye. Round numbers past a full cycle wrap around, so a
// double round-robin just keeps generating.
func (g *RoundRobinGenerator) GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error) {
	players := params.Players
	n := len(players)
	if n < 2 {
		return nil, fmt.Errorf("round robin: not enough players (found %d, min 2 required)", n)
	}
	if params.RoundNumber < 1 {
		return nil, fmt.Errorf("round robin: invalid round number %d", params.RoundNumber)
	}

	// Phantom slot for odd counts; pairing against it is a bye.
	ids := make([]*int, 0, n+1)
	for i := range players {
		id := players[i].ID
		ids = append(ids, &id)
	}
	if n%2 != 0 {
		ids = append(ids, nil)
	}

	size := len(ids)
	rotation := (params.RoundNumber - 1) % (size - 1)

	// Rotate everything except the first slot.
	rotated := make([]*int, size)
	rotated[0] = ids[0]
	for i := 1; i < size; i++ {
		src := i - rotation
		if src < 1 {
			src += size - 1
		}
		rotated[i] = ids[src]
	}

	pairings := make([]Pairing, 0, size/2)
	for i := 0; i < size/2; i++ {
		p1 := rotated[i]
		p2 := rotated[size-1-i]
		if p1 == nil {
			p1, p2 = p2, p1
		}
		pairings = append(pairings, Pairing{Player1ID: p1, Player2ID: p2})
	}
	return pairings, nil
}
