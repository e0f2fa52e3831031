package rules

import (
	"testing"

	"github.com/gobanhq/tournament-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func decidedMatch(p1, p2, winner int) models.Match {
	return models.Match{Player1ID: intPtr(p1), Player2ID: intPtr(p2), WinnerID: intPtr(winner)}
}

func openMatch(p1, p2 int) models.Match {
	return models.Match{Player1ID: intPtr(p1), Player2ID: intPtr(p2)}
}

func tournamentWithRounds(status models.TournamentStatus, rounds ...models.Round) *models.Tournament {
	return &models.Tournament{ID: 1, Name: "Spring Open", Status: status, Rounds: rounds}
}

// completedRounds builds n rounds of fully decided matches.
func completedRounds(n int) []models.Round {
	rounds := make([]models.Round, n)
	for i := range rounds {
		rounds[i] = models.Round{
			Number:    i + 1,
			Completed: true,
			Matches:   []models.Match{decidedMatch(1, 2, 1), decidedMatch(3, 4, 4)},
		}
	}
	return rounds
}

func TestIsRoundComplete(t *testing.T) {
	tests := []struct {
		name  string
		round *models.Round
		want  bool
	}{
		{"nil round", nil, false},
		{"no matches", &models.Round{Number: 1}, false},
		{"one undecided", &models.Round{Matches: []models.Match{decidedMatch(1, 2, 1), openMatch(3, 4)}}, false},
		{"all undecided", &models.Round{Matches: []models.Match{openMatch(1, 2), openMatch(3, 4)}}, false},
		{"all decided", &models.Round{Matches: []models.Match{decidedMatch(1, 2, 1), decidedMatch(3, 4, 4)}}, true},
		{"single decided bye", &models.Round{Matches: []models.Match{{Player1ID: intPtr(5), WinnerID: intPtr(5)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRoundComplete(tt.round))
		})
	}
}

func TestIsRoundCompleteIgnoresStoredFlag(t *testing.T) {
	// The denormalized flag says complete, the match data says otherwise.
	round := &models.Round{
		Completed: true,
		Matches:   []models.Match{openMatch(1, 2)},
	}
	assert.False(t, IsRoundComplete(round))

	round = &models.Round{
		Completed: false,
		Matches:   []models.Match{decidedMatch(1, 2, 2)},
	}
	assert.True(t, IsRoundComplete(round))
}

func TestValidateWinner(t *testing.T) {
	match := &models.Match{ID: 7, Player1ID: intPtr(10), Player2ID: intPtr(20)}

	tests := []struct {
		name     string
		match    *models.Match
		winnerID *int
		wantErr  error
	}{
		{"nil match", nil, intPtr(10), ErrNoMatchSelected},
		{"nil winner", match, nil, ErrWinnerRequired},
		{"zero winner", match, intPtr(0), ErrWinnerRequired},
		{"player1 wins", match, intPtr(10), nil},
		{"player2 wins", match, intPtr(20), nil},
		{"other tournament player", match, intPtr(30), ErrInvalidWinner},
		{"bye match rejects absent slot", &models.Match{Player1ID: intPtr(10)}, intPtr(20), ErrInvalidWinner},
		{"bye match accepts present player", &models.Match{Player1ID: intPtr(10)}, intPtr(10), nil},
		{"empty match rejects everyone", &models.Match{}, intPtr(10), ErrInvalidWinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWinner(tt.match, tt.winnerID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanGenerateNextRound(t *testing.T) {
	complete := models.Round{Number: 1, Matches: []models.Match{decidedMatch(1, 2, 1)}}
	incomplete := models.Round{Number: 1, Matches: []models.Match{openMatch(1, 2)}}

	tests := []struct {
		name       string
		tournament *models.Tournament
		want       bool
	}{
		{"nil tournament", nil, false},
		{"ongoing, complete round", tournamentWithRounds(models.StatusOngoing, complete), true},
		{"ongoing, incomplete round", tournamentWithRounds(models.StatusOngoing, incomplete), false},
		{"ongoing, no rounds", tournamentWithRounds(models.StatusOngoing), false},
		{"not started, complete round", tournamentWithRounds(models.StatusNotStarted, complete), false},
		{"ended, complete round", tournamentWithRounds(models.StatusEnded, complete), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanGenerateNextRound(tt.tournament))
		})
	}
}

func TestCanDeleteRound(t *testing.T) {
	three := tournamentWithRounds(models.StatusOngoing, completedRounds(3)...)

	assert.True(t, CanDeleteRound(three, 2), "last round of an ongoing tournament")
	assert.False(t, CanDeleteRound(three, 0))
	assert.False(t, CanDeleteRound(three, 1))
	assert.False(t, CanDeleteRound(three, 3), "index past the end")

	ended := tournamentWithRounds(models.StatusEnded, completedRounds(3)...)
	assert.False(t, CanDeleteRound(ended, 2))

	notStarted := tournamentWithRounds(models.StatusNotStarted, completedRounds(3)...)
	assert.False(t, CanDeleteRound(notStarted, 2))

	empty := tournamentWithRounds(models.StatusOngoing)
	assert.False(t, CanDeleteRound(empty, 0))
	assert.False(t, CanDeleteRound(empty, -1))
}

func TestEvaluateEndThreeCompletedRounds(t *testing.T) {
	tournament := tournamentWithRounds(models.StatusOngoing, completedRounds(3)...)

	report := EvaluateEnd(tournament)

	assert.False(t, report.CanEnd)
	require.Len(t, report.Checks, 2)
	assert.False(t, report.Checks[0].Passed)
	assert.Contains(t, report.Checks[0].Detail, "need 1 more round")
	assert.True(t, report.Checks[1].Passed, "current round itself is complete")
}

func TestEvaluateEndFourRoundsLastUndecided(t *testing.T) {
	rounds := completedRounds(4)
	rounds[3].Matches = append(rounds[3].Matches, openMatch(5, 6))
	tournament := tournamentWithRounds(models.StatusOngoing, rounds...)

	report := EvaluateEnd(tournament)

	assert.False(t, report.CanEnd)
	require.Len(t, report.Checks, 2)
	assert.True(t, report.Checks[0].Passed, "round count satisfied")
	assert.False(t, report.Checks[1].Passed)
	assert.Contains(t, report.Checks[1].Detail, "every match")
}

func TestEvaluateEndFourCompletedRounds(t *testing.T) {
	tournament := tournamentWithRounds(models.StatusOngoing, completedRounds(4)...)

	report := EvaluateEnd(tournament)

	assert.True(t, report.CanEnd)
	for _, check := range report.Checks {
		assert.True(t, check.Passed, check.Label)
	}
}

func TestEvaluateEndNoRounds(t *testing.T) {
	report := EvaluateEnd(tournamentWithRounds(models.StatusOngoing))

	assert.False(t, report.CanEnd)
	require.Len(t, report.Checks, 2)
	assert.Contains(t, report.Checks[0].Detail, "need 4 more round(s)")
	assert.Contains(t, report.Checks[1].Detail, "no rounds")
}

func TestEvaluateEndNilTournament(t *testing.T) {
	report := EvaluateEnd(nil)
	assert.False(t, report.CanEnd)
	require.Len(t, report.Checks, 2)
}

// The legacy flag-based check and the policy evaluator are intentionally
// independent: two flagged-complete rounds satisfy the former but not the
// four-round policy.
func TestAllRoundsFlaggedCompletedDisagreesWithEvaluateEnd(t *testing.T) {
	tournament := tournamentWithRounds(models.StatusOngoing, completedRounds(2)...)

	assert.True(t, AllRoundsFlaggedCompleted(tournament))
	assert.False(t, EvaluateEnd(tournament).CanEnd)
}

func TestAllRoundsFlaggedCompleted(t *testing.T) {
	rounds := completedRounds(3)
	rounds[1].Completed = false
	assert.False(t, AllRoundsFlaggedCompleted(tournamentWithRounds(models.StatusOngoing, rounds...)))

	assert.True(t, AllRoundsFlaggedCompleted(tournamentWithRounds(models.StatusOngoing)), "vacuously true with no rounds")
	assert.False(t, AllRoundsFlaggedCompleted(nil))
}

// Evaluators must be pure: calling them twice on the same snapshot yields
// identical results and leaves the snapshot untouched.
func TestEvaluatorsAreIdempotent(t *testing.T) {
	rounds := completedRounds(4)
	rounds[3].Matches[1].WinnerID = nil
	tournament := tournamentWithRounds(models.StatusOngoing, rounds...)

	first := EvaluateEnd(tournament)
	second := EvaluateEnd(tournament)
	assert.Equal(t, first, second)

	assert.Equal(t, CanGenerateNextRound(tournament), CanGenerateNextRound(tournament))
	assert.Equal(t, IsRoundComplete(tournament.CurrentRound()), IsRoundComplete(tournament.CurrentRound()))
	assert.Nil(t, tournament.Rounds[3].Matches[1].WinnerID, "snapshot not mutated")
}
