package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gobanhq/tournament-server/live"
	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/pairing"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/rules"
)

type RoundService interface {
	Generate(ctx context.Context, tournamentID, currentUserID int) (*models.Tournament, error)
	Delete(ctx context.Context, tournamentID, roundNumber, currentUserID int) (*models.Tournament, error)
}

type roundService struct {
	db         *sql.DB
	roundRepo  repositories.RoundRepository
	matchRepo  repositories.MatchRepository
	hub        *live.Hub
	logger     *slog.Logger
	loader     *snapshotLoader
	tournament repositories.TournamentRepository
}

func NewRoundService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		db:         db,
		roundRepo:  roundRepo,
		matchRepo:  matchRepo,
		hub:        hub,
		logger:     logger,
		tournament: tournamentRepo,
		loader: &snapshotLoader{
			tournamentRepo: tournamentRepo,
			playerRepo:     playerRepo,
			roundRepo:      roundRepo,
			matchRepo:      matchRepo,
		},
	}
}

// Generate creates the next round once the current one is complete. The
// gate is re-checked here against a fresh snapshot — whatever a client
// concluded from its own copy is advisory only.
func (s *roundService) Generate(ctx context.Context, tournamentID, currentUserID int) (*models.Tournament, error) {
	snapshot, err := s.loader.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if snapshot.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}

	if !rules.CanGenerateNextRound(snapshot) {
		switch {
		case snapshot.Status != models.StatusOngoing:
			return nil, ErrTournamentNotOngoing
		case len(snapshot.Rounds) == 0:
			return nil, ErrNoRoundsGenerated
		default:
			return nil, ErrRoundNotCompleted
		}
	}

	nextNumber := len(snapshot.Rounds) + 1
	var created *models.Round
	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = createRoundWithPairings(ctx, tx, s.roundRepo, s.matchRepo, snapshot, nextNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round_number", created.Number),
		slog.Int("matches", len(created.Matches)))
	s.hub.BroadcastToRoom(live.RoomID(tournamentID), live.Event{
		Type:    live.EventRoundGenerated,
		Payload: map[string]int{"round_number": created.Number},
	})
	return s.loader.Load(ctx, tournamentID)
}

// Delete removes a round. Only the most recent round of an ongoing
// tournament may go; matches are removed with it.
func (s *roundService) Delete(ctx context.Context, tournamentID, roundNumber, currentUserID int) (*models.Tournament, error) {
	snapshot, err := s.loader.Load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if snapshot.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}

	roundIndex := -1
	for i := range snapshot.Rounds {
		if snapshot.Rounds[i].Number == roundNumber {
			roundIndex = i
			break
		}
	}
	if roundIndex == -1 {
		return nil, ErrRoundNotFound
	}

	if !rules.CanDeleteRound(snapshot, roundIndex) {
		if snapshot.Status != models.StatusOngoing {
			return nil, ErrTournamentNotOngoing
		}
		return nil, ErrNotCurrentRound
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		return mapRepoNotFound(s.roundRepo.Delete(ctx, tx, snapshot.Rounds[roundIndex].ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round deleted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round_number", roundNumber))
	s.hub.BroadcastToRoom(live.RoomID(tournamentID), live.Event{
		Type:    live.EventRoundDeleted,
		Payload: map[string]int{"round_number": roundNumber},
	})
	return s.loader.Load(ctx, tournamentID)
}

// createRoundWithPairings inserts a round and its generated matches inside
// the caller's transaction. Shared by RoundService.Generate and the
// first-round creation in TournamentService.Start.
func createRoundWithPairings(
	ctx context.Context,
	tx *sql.Tx,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	tournament *models.Tournament,
	number int,
) (*models.Round, error) {
	generator := pairing.ForFormat(tournament.Format)
	pairings, err := generator.GeneratePairings(ctx, pairing.GenerateParams{
		Tournament:  tournament,
		Players:     tournament.Players,
		RoundNumber: number,
	})
	if err != nil {
		return nil, fmt.Errorf("%s pairing failed for tournament %d: %w", generator.Name(), tournament.ID, err)
	}

	round := &models.Round{
		TournamentID: tournament.ID,
		Number:       number,
	}
	if err := roundRepo.Create(ctx, tx, round); err != nil {
		return nil, fmt.Errorf("failed to create round %d: %w", number, err)
	}

	round.Matches = make([]models.Match, 0, len(pairings))
	for _, p := range pairings {
		match := &models.Match{
			RoundID:   round.ID,
			Player1ID: p.Player1ID,
			Player2ID: p.Player2ID,
		}
		if err := matchRepo.Create(ctx, tx, match); err != nil {
			return nil, fmt.Errorf("failed to create match in round %d: %w", number, err)
		}
		round.Matches = append(round.Matches, *match)
	}
	return round, nil
}
