package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gobanhq/tournament-server/live"
	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/rules"
)

type MatchService interface {
	RecordResult(ctx context.Context, tournamentID, matchID, currentUserID int, input RecordResultInput) (*models.Tournament, error)
}

type RecordResultInput struct {
	WinnerID *int    `json:"winner_id"`
	Score    *string `json:"score"`
}

type matchService struct {
	db        *sql.DB
	roundRepo repositories.RoundRepository
	matchRepo repositories.MatchRepository
	hub       *live.Hub
	logger    *slog.Logger
	loader    *snapshotLoader
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		roundRepo: roundRepo,
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
		loader: &snapshotLoader{
			tournamentRepo: tournamentRepo,
			playerRepo:     playerRepo,
			roundRepo:      roundRepo,
			matchRepo:      matchRepo,
		},
	}
}

// RecordResult validates and applies a match result, then refreshes the
// denormalized Completed flag of the round from the post-update match data.
// Validation failures never reach the database. The returned snapshot is
// re-read after the commit so callers display stored state, not an
// optimistic local copy.
func (s *matchService) RecordResult(ctx context.Context, tournamentID, matchID, currentUserID int, input RecordResultInput) (*models.Tournament, error) {
	snapshot, err := s.loader.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if snapshot.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if snapshot.Status != models.StatusOngoing {
		return nil, ErrTournamentNotOngoing
	}

	match, round := findMatch(snapshot, matchID)
	if match == nil {
		return nil, ErrMatchNotInTournament
	}

	if err := rules.ValidateWinner(match, input.WinnerID); err != nil {
		return nil, err
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateResult(ctx, tx, matchID, input.WinnerID, input.Score); err != nil {
			return mapRepoNotFound(err)
		}

		// Recompute round completion with the just-recorded result applied.
		match.WinnerID = input.WinnerID
		completed := rules.IsRoundComplete(round)
		if completed != round.Completed {
			return mapRepoNotFound(s.roundRepo.SetCompleted(ctx, tx, round.ID, completed))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match result recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", matchID),
		slog.Int("winner_id", *input.WinnerID))
	s.hub.BroadcastToRoom(live.RoomID(tournamentID), live.Event{
		Type: live.EventMatchResult,
		Payload: map[string]interface{}{
			"match_id":  matchID,
			"winner_id": *input.WinnerID,
		},
	})
	return s.loader.Load(ctx, tournamentID)
}

func findMatch(t *models.Tournament, matchID int) (*models.Match, *models.Round) {
	for i := range t.Rounds {
		for j := range t.Rounds[i].Matches {
			if t.Rounds[i].Matches[j].ID == matchID {
				return &t.Rounds[i].Matches[j], &t.Rounds[i]
			}
		}
	}
	return nil, nil
}
