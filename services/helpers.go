package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/storage"
)

// runInTransaction wraps fn in a database transaction, rolling back on any
// error or panic.
func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusNotStarted: {models.StatusOngoing},
		models.StatusOngoing:    {models.StatusEnded},
		models.StatusEnded:      {},
	}
	for _, nextStatus := range allowed[current] {
		if next == nextStatus {
			return true
		}
	}
	return false
}

// mapRepoNotFound translates repository not-found sentinels to their
// service-level counterparts, leaving everything else untouched.
func mapRepoNotFound(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	}
	return err
}

func populatePlayerURL(p *models.Player, uploader storage.FileUploader) {
	if p == nil || p.AvatarKey == nil || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*p.AvatarKey); url != "" {
		p.AvatarURL = &url
	}
}

func populateTournamentLogoURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || t.LogoKey == nil || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}
