package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gobanhq/tournament-server/live"
	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/rules"
	"github.com/gobanhq/tournament-server/storage"
	"github.com/google/uuid"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetSnapshot(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateDetails(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id, currentUserID int) error
	AddPlayer(ctx context.Context, id, currentUserID, playerID int) (*models.Tournament, error)
	RemovePlayer(ctx context.Context, id, currentUserID, playerID int) (*models.Tournament, error)
	Start(ctx context.Context, id, currentUserID int) (*models.Tournament, error)
	EndEvaluation(ctx context.Context, id int) (*EndEvaluation, error)
	End(ctx context.Context, id, currentUserID int) (*models.Tournament, error)
	Standings(ctx context.Context, id int) ([]models.StandingRow, error)
	UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Format      models.TournamentFormat `json:"format"`
}

type UpdateTournamentInput struct {
	Name        *string                  `json:"name"`
	Description *string                  `json:"description"`
	Format      *models.TournamentFormat `json:"format"`
}

// EndEvaluation bundles the policy report with the legacy flag-based
// visibility check. The two are independent on purpose; see DESIGN.md.
type EndEvaluation struct {
	Report rules.EndReport `json:"report"`

	// EndActionVisible mirrors the historical "all rounds flagged
	// completed" check that the front end uses to show the End Tournament
	// action at all.
	EndActionVisible bool `json:"end_action_visible"`
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
	hub            *live.Hub
	logger         *slog.Logger
	loader         *snapshotLoader
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		uploader:       uploader,
		hub:            hub,
		logger:         logger,
		loader: &snapshotLoader{
			tournamentRepo: tournamentRepo,
			playerRepo:     playerRepo,
			roundRepo:      roundRepo,
			matchRepo:      matchRepo,
			uploader:       uploader,
		},
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameReq
	}
	if !models.IsValidTournamentFormat(input.Format) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, input.Format)
	}

	tournament := &models.Tournament{
		Name:        name,
		Description: input.Description,
		Format:      input.Format,
		Status:      models.StatusNotStarted,
		OrganizerID: organizerID,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	tournament.Players = []models.Player{}
	tournament.Rounds = []models.Round{}
	return tournament, nil
}

func (s *tournamentService) GetSnapshot(ctx context.Context, id int) (*models.Tournament, error) {
	return s.loader.Load(ctx, id)
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		populateTournamentLogoURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateDetails(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTournamentNameReq
		}
		tournament.Name = name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.Format != nil {
		// The format drives pairing; changing it mid-play is not allowed.
		if tournament.Status != models.StatusNotStarted {
			return nil, ErrInvalidStatusChange
		}
		if !models.IsValidTournamentFormat(*input.Format) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, *input.Format)
		}
		tournament.Format = *input.Format
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, mapRepoNotFound(err)
	}
	return s.loader.Load(ctx, id)
}

func (s *tournamentService) Delete(ctx context.Context, id, currentUserID int) error {
	if _, err := s.authorizeOrganizer(ctx, id, currentUserID); err != nil {
		return err
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentInUse) {
			return ErrTournamentInUse
		}
		return mapRepoNotFound(err)
	}
	return nil
}

func (s *tournamentService) AddPlayer(ctx context.Context, id, currentUserID, playerID int) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusNotStarted {
		return nil, ErrEnrollmentClosed
	}

	if err := s.tournamentRepo.AddPlayer(ctx, id, playerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentPlayerConflict):
			return nil, ErrPlayerAlreadyEnrolled
		case errors.Is(err, repositories.ErrTournamentPlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, mapRepoNotFound(err)
	}
	return s.loader.Load(ctx, id)
}

func (s *tournamentService) RemovePlayer(ctx context.Context, id, currentUserID, playerID int) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusNotStarted {
		return nil, ErrEnrollmentClosed
	}

	if err := s.tournamentRepo.RemovePlayer(ctx, id, playerID); err != nil {
		if errors.Is(err, repositories.ErrTournamentEnrollmentMissing) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.loader.Load(ctx, id)
}

// Start moves a tournament to ongoing and generates its first round in the
// same transaction. Later rounds go through RoundService.Generate, which is
// gated on the previous round being complete; the first round has no
// previous round, so it is created here.
func (s *tournamentService) Start(ctx context.Context, id, currentUserID int) (*models.Tournament, error) {
	snapshot, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if snapshot.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if !isValidStatusTransition(snapshot.Status, models.StatusOngoing) || snapshot.Status != models.StatusNotStarted {
		return nil, ErrInvalidStatusChange
	}
	if len(snapshot.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusOngoing); err != nil {
			return mapRepoNotFound(err)
		}
		_, err := createRoundWithPairings(ctx, tx, s.roundRepo, s.matchRepo, snapshot, 1)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament started", slog.Int("tournament_id", id))
	s.hub.BroadcastToRoom(live.RoomID(id), live.Event{
		Type:    live.EventRoundGenerated,
		Payload: map[string]int{"round_number": 1},
	})
	return s.loader.Load(ctx, id)
}

// EndEvaluation recomputes the termination report from a fresh snapshot.
// Read-only: no status is changed here.
func (s *tournamentService) EndEvaluation(ctx context.Context, id int) (*EndEvaluation, error) {
	snapshot, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EndEvaluation{
		Report:           rules.EvaluateEnd(snapshot),
		EndActionVisible: rules.AllRoundsFlaggedCompleted(snapshot),
	}, nil
}

// End transitions an ongoing tournament to ended, declaring the standings
// leader the winner. The policy gate (rules.EvaluateEnd) is authoritative
// here regardless of what any client-side check concluded.
func (s *tournamentService) End(ctx context.Context, id, currentUserID int) (*models.Tournament, error) {
	snapshot, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if snapshot.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if snapshot.Status != models.StatusOngoing {
		return nil, ErrTournamentNotOngoing
	}

	report := rules.EvaluateEnd(snapshot)
	if !report.CanEnd {
		for _, check := range report.Checks {
			if !check.Passed {
				return nil, fmt.Errorf("%w: %s", ErrTournamentCannotEnd, check.Detail)
			}
		}
		return nil, ErrTournamentCannotEnd
	}

	var winnerID *int
	if standings := ComputeStandings(snapshot.Players, snapshot.Rounds); len(standings) > 0 {
		id := standings[0].Player.ID
		winnerID = &id
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.UpdateWinner(ctx, tx, id, winnerID); err != nil {
			return mapRepoNotFound(err)
		}
		return mapRepoNotFound(s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusEnded))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament ended",
		slog.Int("tournament_id", id),
		slog.Any("winner_player_id", winnerID))
	s.hub.BroadcastToRoom(live.RoomID(id), live.Event{
		Type:    live.EventTournamentEnded,
		Payload: map[string]interface{}{"winner_player_id": winnerID},
	})
	return s.loader.Load(ctx, id)
}

func (s *tournamentService) Standings(ctx context.Context, id int) ([]models.StandingRow, error) {
	snapshot, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(snapshot.Players, snapshot.Rounds), nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.authorizeOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/logo-%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for tournament %d: %w", id, err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, mapRepoNotFound(err)
	}
	if oldKey != nil && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}
	return s.loader.Load(ctx, id)
}

func (s *tournamentService) authorizeOrganizer(ctx context.Context, tournamentID, currentUserID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}
