package services

import (
	"context"
	"fmt"

	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/storage"
	"golang.org/x/sync/errgroup"
)

// snapshotLoader assembles the full read-only tournament snapshot the rules
// package evaluates: core row, enrolled players, and rounds with their
// matches. Players, rounds and matches are fetched in parallel.
type snapshotLoader struct {
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	uploader       storage.FileUploader
}

func (l *snapshotLoader) Load(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := l.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	var (
		players []models.Player
		rounds  []models.Round
		matches []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		players, err = l.playerRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load players for tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		rounds, err = l.roundRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load rounds for tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		matches, err = l.matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load matches for tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range players {
		populatePlayerURL(&players[i], l.uploader)
	}
	populateTournamentLogoURL(tournament, l.uploader)

	tournament.Players = players
	tournament.Rounds = attachMatches(rounds, matches)
	return tournament, nil
}

// attachMatches distributes matches to their rounds, preserving the
// repository ordering (rounds by number, matches by id).
func attachMatches(rounds []models.Round, matches []models.Match) []models.Round {
	byRound := make(map[int][]models.Match, len(rounds))
	for _, m := range matches {
		byRound[m.RoundID] = append(byRound[m.RoundID], m)
	}
	for i := range rounds {
		ms := byRound[rounds[i].ID]
		if ms == nil {
			ms = []models.Match{}
		}
		rounds[i].Matches = ms
	}
	return rounds
}
