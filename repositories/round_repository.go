package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gobanhq/tournament-server/models"
	"github.com/lib/pq"
)

var (
	ErrRoundNotFound          = errors.New("round not found")
	ErrRoundNumberConflict    = errors.New("round number already exists for this tournament")
	ErrRoundTournamentInvalid = errors.New("invalid tournament reference for round")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByNumber(ctx context.Context, tournamentID, number int) (*models.Round, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error)
	SetCompleted(ctx context.Context, exec SQLExecutor, roundID int, completed bool) error
	Delete(ctx context.Context, exec SQLExecutor, roundID int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rounds (tournament_id, number, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		round.TournamentID, round.Number, round.Completed,
	).Scan(&round.ID, &round.CreatedAt)

	return r.handleRoundError(err)
}

func (r *postgresRoundRepository) GetByNumber(ctx context.Context, tournamentID, number int) (*models.Round, error) {
	query := `
		SELECT id, tournament_id, number, completed, created_at
		FROM rounds
		WHERE tournament_id = $1 AND number = $2`

	round := &models.Round{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, number).Scan(
		&round.ID, &round.TournamentID, &round.Number, &round.Completed, &round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round %d of tournament %d: %w", number, tournamentID, err)
	}
	return round, nil
}

// ListByTournament returns rounds ordered by number, without matches.
func (r *postgresRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error) {
	query := `
		SELECT id, tournament_id, number, completed, created_at
		FROM rounds
		WHERE tournament_id = $1
		ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(
			&round.ID, &round.TournamentID, &round.Number, &round.Completed, &round.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during round rows iteration: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) SetCompleted(ctx context.Context, exec SQLExecutor, roundID int, completed bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE rounds SET completed = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, completed, roundID)
	if err != nil {
		return fmt.Errorf("failed to update completed flag for round %d: %w", roundID, err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

// Delete removes the round; matches go with it via ON DELETE CASCADE.
func (r *postgresRoundRepository) Delete(ctx context.Context, exec SQLExecutor, roundID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM rounds WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, roundID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) handleRoundError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "rounds_tournament_id_number_key" {
				return ErrRoundNumberConflict
			}
		case "23503":
			if pqErr.Constraint == "rounds_tournament_id_fkey" {
				return ErrRoundTournamentInvalid
			}
		}
	}
	return err
}
