package pairing

import (
	"context"
	"fmt"
	"testing"

	"github.com/gobanhq/tournament-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePlayers(n int) []models.Player {
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{ID: i + 1, Name: fmt.Sprintf("Player %d", i+1), Rank: "1d"}
	}
	return players
}

func pairingKey(p Pairing) string {
	a, b := 0, 0
	if p.Player1ID != nil {
		a = *p.Player1ID
	}
	if p.Player2ID != nil {
		b = *p.Player2ID
	}
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func TestRoundRobinEvenFieldCoversAllPlayersEachRound(t *testing.T) {
	gen := NewRoundRobinGenerator()
	players := makePlayers(6)

	for round := 1; round <= 5; round++ {
		pairings, err := gen.GeneratePairings(context.Background(), GenerateParams{
			Players:     players,
			RoundNumber: round,
		})
		require.NoError(t, err, "round %d", round)
		require.Len(t, pairings, 3, "round %d", round)

		seen := map[int]bool{}
		for _, p := range pairings {
			require.NotNil(t, p.Player1ID)
			require.NotNil(t, p.Player2ID, "even field has no byes")
			seen[*p.Player1ID] = true
			seen[*p.Player2ID] = true
		}
		assert.Len(t, seen, 6, "every player paired exactly once in round %d", round)
	}
}

func TestRoundRobinFullCycleIsAllDistinctPairings(t *testing.T) {
	gen := NewRoundRobinGenerator()
	players := makePlayers(4)

	seen := map[string]bool{}
	for round := 1; round <= 3; round++ {
		pairings, err := gen.GeneratePairings(context.Background(), GenerateParams{
			Players:     players,
			RoundNumber: round,
		})
		require.NoError(t, err)
		for _, p := range pairings {
			key := pairingKey(p)
			assert.False(t, seen[key], "pairing %s repeated within one cycle", key)
			seen[key] = true
		}
	}
	// 4 players, full single round robin: C(4,2) pairings.
	assert.Len(t, seen, 6)
}

func TestRoundRobinOddFieldRotatesBye(t *testing.T) {
	gen := NewRoundRobinGenerator()
	players := makePlayers(5)

	byes := map[int]bool{}
	for round := 1; round <= 5; round++ {
		pairings, err := gen.GeneratePairings(context.Background(), GenerateParams{
			Players:     players,
			RoundNumber: round,
		})
		require.NoError(t, err)
		require.Len(t, pairings, 3)

		byeCount := 0
		for _, p := range pairings {
			require.NotNil(t, p.Player1ID, "bye slot always on player2 side")
			if p.Player2ID == nil {
				byeCount++
				assert.False(t, byes[*p.Player1ID], "player %d got a second bye within one cycle", *p.Player1ID)
				byes[*p.Player1ID] = true
			}
		}
		assert.Equal(t, 1, byeCount, "exactly one bye per round")
	}
	assert.Len(t, byes, 5, "every player got a bye across the cycle")
}

func TestRoundRobinWrapsPastFullCycle(t *testing.T) {
	gen := NewRoundRobinGenerator()
	players := makePlayers(4)

	first, err := gen.GeneratePairings(context.Background(), GenerateParams{Players: players, RoundNumber: 1})
	require.NoError(t, err)
	fourth, err := gen.GeneratePairings(context.Background(), GenerateParams{Players: players, RoundNumber: 4})
	require.NoError(t, err)

	assert.Equal(t, first, fourth, "round 4 of a 3-round cycle repeats round 1")
}

func TestRoundRobinRejectsSmallField(t *testing.T) {
	gen := NewRoundRobinGenerator()
	_, err := gen.GeneratePairings(context.Background(), GenerateParams{Players: makePlayers(1), RoundNumber: 1})
	assert.Error(t, err)
}

func TestRandomPairsEveryoneOnce(t *testing.T) {
	// Pin the shuffle to identity so the draw is deterministic.
	gen := &RandomGenerator{shuffle: func(n int, swap func(i, j int)) {}}

	pairings, err := gen.GeneratePairings(context.Background(), GenerateParams{Players: makePlayers(7)})
	require.NoError(t, err)
	require.Len(t, pairings, 4)

	seen := map[int]bool{}
	byeCount := 0
	for _, p := range pairings {
		require.NotNil(t, p.Player1ID)
		seen[*p.Player1ID] = true
		if p.Player2ID == nil {
			byeCount++
		} else {
			seen[*p.Player2ID] = true
		}
	}
	assert.Len(t, seen, 7)
	assert.Equal(t, 1, byeCount, "odd field produces exactly one bye")
}

func TestRandomRejectsSmallField(t *testing.T) {
	gen := NewRandomGenerator()
	_, err := gen.GeneratePairings(context.Background(), GenerateParams{Players: makePlayers(0)})
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	assert.Equal(t, "RoundRobin", ForFormat(models.FormatRoundRobin).Name())
	assert.Equal(t, "Random", ForFormat(models.FormatSwiss).Name())
	assert.Equal(t, "Random", ForFormat(models.FormatMcMahon).Name())
	assert.Equal(t, "Random", ForFormat(models.FormatSingleElimination).Name())
}
