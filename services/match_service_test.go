package services

import (
	"context"
	"testing"

	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/rules"
	"github.com/stretchr/testify/assert"
)

const testOrganizerID = 42

// fixtureTournament builds a stored tournament snapshot behind fakes:
// round 1 has one decided and one open match.
func fixtureServices(status models.TournamentStatus, rounds []models.Round) (MatchService, RoundService) {
	tournamentRepo := &fakeTournamentRepo{tournament: &models.Tournament{
		ID:          1,
		Name:        "Autumn Goban Cup",
		Format:      models.FormatSwiss,
		Status:      status,
		OrganizerID: testOrganizerID,
	}}
	playerRepo := &fakePlayerRepo{players: []models.Player{
		{ID: 10, Name: "Shin", Rank: "9d"},
		{ID: 20, Name: "Byun", Rank: "9d"},
		{ID: 30, Name: "Park", Rank: "8d"},
		{ID: 40, Name: "Ke", Rank: "9d"},
	}}
	roundRepo := &fakeRoundRepo{rounds: rounds}
	matchRepo := &fakeMatchRepo{rounds: rounds}

	matchSvc := NewMatchService(nil, tournamentRepo, playerRepo, roundRepo, matchRepo, testHub(), testLogger())
	roundSvc := NewRoundService(nil, tournamentRepo, playerRepo, roundRepo, matchRepo, testHub(), testLogger())
	return matchSvc, roundSvc
}

func roundOneInProgress() []models.Round {
	return []models.Round{{
		ID:           100,
		TournamentID: 1,
		Number:       1,
		Matches: []models.Match{
			{ID: 1000, RoundID: 100, Player1ID: intPtr(10), Player2ID: intPtr(20), WinnerID: intPtr(10)},
			{ID: 1001, RoundID: 100, Player1ID: intPtr(30), Player2ID: intPtr(40)},
		},
	}}
}

func TestRecordResultRejectsForeignUser(t *testing.T) {
	matchSvc, _ := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := matchSvc.RecordResult(context.Background(), 1, 1001, 7, RecordResultInput{WinnerID: intPtr(30)})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestRecordResultRejectsNonOngoingTournament(t *testing.T) {
	matchSvc, _ := fixtureServices(models.StatusEnded, roundOneInProgress())

	_, err := matchSvc.RecordResult(context.Background(), 1, 1001, testOrganizerID, RecordResultInput{WinnerID: intPtr(30)})
	assert.ErrorIs(t, err, ErrTournamentNotOngoing)
}

func TestRecordResultRejectsUnknownMatch(t *testing.T) {
	matchSvc, _ := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := matchSvc.RecordResult(context.Background(), 1, 9999, testOrganizerID, RecordResultInput{WinnerID: intPtr(30)})
	assert.ErrorIs(t, err, ErrMatchNotInTournament)
}

func TestRecordResultRejectsMissingWinner(t *testing.T) {
	matchSvc, _ := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := matchSvc.RecordResult(context.Background(), 1, 1001, testOrganizerID, RecordResultInput{})
	assert.ErrorIs(t, err, rules.ErrWinnerRequired)
}

// The winner must be a participant of this match; belonging to the
// tournament is not enough.
func TestRecordResultRejectsNonParticipantWinner(t *testing.T) {
	matchSvc, _ := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := matchSvc.RecordResult(context.Background(), 1, 1001, testOrganizerID, RecordResultInput{WinnerID: intPtr(10)})
	assert.ErrorIs(t, err, rules.ErrInvalidWinner)
}

func TestGenerateRejectsIncompleteRound(t *testing.T) {
	_, roundSvc := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := roundSvc.Generate(context.Background(), 1, testOrganizerID)
	assert.ErrorIs(t, err, ErrRoundNotCompleted)
}

func TestGenerateRejectsTournamentWithoutRounds(t *testing.T) {
	_, roundSvc := fixtureServices(models.StatusOngoing, nil)

	_, err := roundSvc.Generate(context.Background(), 1, testOrganizerID)
	assert.ErrorIs(t, err, ErrNoRoundsGenerated)
}

func TestGenerateRejectsNonOngoingTournament(t *testing.T) {
	_, roundSvc := fixtureServices(models.StatusNotStarted, roundOneInProgress())

	_, err := roundSvc.Generate(context.Background(), 1, testOrganizerID)
	assert.ErrorIs(t, err, ErrTournamentNotOngoing)
}

func TestDeleteRoundRejectsEarlierRound(t *testing.T) {
	rounds := []models.Round{
		{ID: 100, TournamentID: 1, Number: 1, Completed: true, Matches: []models.Match{
			{ID: 1000, RoundID: 100, Player1ID: intPtr(10), Player2ID: intPtr(20), WinnerID: intPtr(10)},
		}},
		{ID: 101, TournamentID: 1, Number: 2, Matches: []models.Match{
			{ID: 1001, RoundID: 101, Player1ID: intPtr(30), Player2ID: intPtr(40)},
		}},
	}
	_, roundSvc := fixtureServices(models.StatusOngoing, rounds)

	_, err := roundSvc.Delete(context.Background(), 1, 1, testOrganizerID)
	assert.ErrorIs(t, err, ErrNotCurrentRound)
}

func TestDeleteRoundRejectsUnknownRound(t *testing.T) {
	_, roundSvc := fixtureServices(models.StatusOngoing, roundOneInProgress())

	_, err := roundSvc.Delete(context.Background(), 1, 5, testOrganizerID)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestDeleteRoundRejectsEndedTournament(t *testing.T) {
	_, roundSvc := fixtureServices(models.StatusEnded, roundOneInProgress())

	_, err := roundSvc.Delete(context.Background(), 1, 1, testOrganizerID)
	assert.ErrorIs(t, err, ErrTournamentNotOngoing)
}
