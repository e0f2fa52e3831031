package pairing

import (
	"context"
	"fmt"
	"math/rand"
)

// RandomGenerator shuffles the field and pairs adjacent players. The last
// player of an odd field gets a bye. Used as the fallback for formats whose
// proper pairing systems this server does not implement.
type RandomGenerator struct {
	// shuffle is swappable so tests can pin the order.
	shuffle func(n int, swap func(i, j int))
}

func NewRandomGenerator() Generator {
	return &RandomGenerator{shuffle: rand.Shuffle}
}

func (g *RandomGenerator) Name() string {
	return "Random"
}

func (g *RandomGenerator) GeneratePairings(ctx context.Context, params GenerateParams) ([]Pairing, error) {
	players := params.Players
	n := len(players)
	if n < 2 {
		return nil, fmt.Errorf("random pairing: not enough players (found %d, min 2 required)", n)
	}

	ids := make([]int, n)
	for i := range players {
		ids[i] = players[i].ID
	}
	g.shuffle(n, func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	pairings := make([]Pairing, 0, (n+1)/2)
	for i := 0; i+1 < n; i += 2 {
		p1, p2 := ids[i], ids[i+1]
		pairings = append(pairings, Pairing{Player1ID: &p1, Player2ID: &p2})
	}
	if n%2 != 0 {
		bye := ids[n-1]
		pairings = append(pairings, Pairing{Player1ID: &bye})
	}
	return pairings, nil
}
