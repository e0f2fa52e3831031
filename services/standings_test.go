package services

import (
	"testing"

	"github.com/gobanhq/tournament-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStandingsOrdersByGamePoints(t *testing.T) {
	players := []models.Player{
		{ID: 1, Name: "Aoba", Rank: "3d", Score: 1500},
		{ID: 2, Name: "Hon", Rank: "5d", Score: 1900},
		{ID: 3, Name: "Sai", Rank: "9d", Score: 2900},
	}
	rounds := []models.Round{
		{Matches: []models.Match{
			{Player1ID: intPtr(1), Player2ID: intPtr(2), WinnerID: intPtr(2)},
			{Player1ID: intPtr(3), WinnerID: intPtr(3)}, // bye, recorded
		}},
		{Matches: []models.Match{
			{Player1ID: intPtr(2), Player2ID: intPtr(3), WinnerID: intPtr(3)},
			{Player1ID: intPtr(1)}, // bye, not yet recorded
		}},
	}

	rows := ComputeStandings(players, rounds)
	require.Len(t, rows, 3)

	assert.Equal(t, 3, rows[0].Player.ID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, float64(2), rows[0].GamePoints)
	assert.Equal(t, 0, rows[0].Losses)

	assert.Equal(t, 2, rows[1].Player.ID)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 1, rows[1].Wins)
	assert.Equal(t, 1, rows[1].Losses)

	assert.Equal(t, 1, rows[2].Player.ID)
	assert.Equal(t, 3, rows[2].Rank)
	assert.Equal(t, 0, rows[2].Wins)
	assert.Equal(t, 1, rows[2].Losses, "undecided bye contributes nothing")
}

func TestComputeStandingsTieBreaksOnPlayerScore(t *testing.T) {
	players := []models.Player{
		{ID: 1, Name: "Ichiryu", Score: 2100},
		{ID: 2, Name: "Nikaido", Score: 2400},
	}
	// One decided game each: equal points and wins.
	rounds := []models.Round{
		{Matches: []models.Match{{Player1ID: intPtr(1), WinnerID: intPtr(1)}}},
		{Matches: []models.Match{{Player1ID: intPtr(2), WinnerID: intPtr(2)}}},
	}

	rows := ComputeStandings(players, rounds)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Player.ID, "higher external score ranks first on ties")
	assert.Equal(t, 1, rows[1].Player.ID)
}

func TestComputeStandingsIgnoresUnknownPlayers(t *testing.T) {
	players := []models.Player{{ID: 1, Name: "Solo"}}
	rounds := []models.Round{
		{Matches: []models.Match{{Player1ID: intPtr(99), Player2ID: intPtr(1), WinnerID: intPtr(99)}}},
	}

	rows := ComputeStandings(players, rounds)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Losses, "loss against an unindexed opponent still counts")
	assert.Equal(t, 0, rows[0].Wins)
}

func TestComputeStandingsEmptyTournament(t *testing.T) {
	assert.Empty(t, ComputeStandings(nil, nil))
}
