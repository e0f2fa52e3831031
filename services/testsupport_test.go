package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/gobanhq/tournament-server/live"
	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
)

// In-memory repository fakes backing the snapshot loader. Only the read
// paths are exercised by the service tests here; mutating methods are
// wired to fail loudly if a test reaches them unexpectedly.

type fakeTournamentRepo struct {
	tournament *models.Tournament
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if f.tournament == nil || f.tournament.ID != id {
		return nil, repositories.ErrTournamentNotFound
	}
	copy := *f.tournament
	copy.Players = nil
	copy.Rounds = nil
	return &copy, nil
}

func (f *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	panic("unexpected call: Create")
}

func (f *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	panic("unexpected call: List")
}

func (f *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	panic("unexpected call: Update")
}

func (f *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	panic("unexpected call: UpdateStatus")
}

func (f *fakeTournamentRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, winnerPlayerID *int) error {
	panic("unexpected call: UpdateWinner")
}

func (f *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error {
	panic("unexpected call: UpdateLogoKey")
}

func (f *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	panic("unexpected call: Delete")
}

func (f *fakeTournamentRepo) AddPlayer(ctx context.Context, tournamentID, playerID int) error {
	panic("unexpected call: AddPlayer")
}

func (f *fakeTournamentRepo) RemovePlayer(ctx context.Context, tournamentID, playerID int) error {
	panic("unexpected call: RemovePlayer")
}

type fakePlayerRepo struct {
	players []models.Player
}

func (f *fakePlayerRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Player, error) {
	return append([]models.Player(nil), f.players...), nil
}

func (f *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error {
	panic("unexpected call: Create")
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	for i := range f.players {
		if f.players[i].ID == id {
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) List(ctx context.Context, limit, offset int) ([]models.Player, error) {
	panic("unexpected call: List")
}

func (f *fakePlayerRepo) Update(ctx context.Context, p *models.Player) error {
	panic("unexpected call: Update")
}

func (f *fakePlayerRepo) UpdateScore(ctx context.Context, exec repositories.SQLExecutor, playerID int, score float64) error {
	panic("unexpected call: UpdateScore")
}

func (f *fakePlayerRepo) UpdateAvatarKey(ctx context.Context, playerID int, avatarKey *string) error {
	panic("unexpected call: UpdateAvatarKey")
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	panic("unexpected call: Delete")
}

type fakeRoundRepo struct {
	rounds []models.Round
}

func (f *fakeRoundRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error) {
	rounds := make([]models.Round, len(f.rounds))
	for i, r := range f.rounds {
		r.Matches = nil
		rounds[i] = r
	}
	return rounds, nil
}

func (f *fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.Round) error {
	panic("unexpected call: Create")
}

func (f *fakeRoundRepo) GetByNumber(ctx context.Context, tournamentID, number int) (*models.Round, error) {
	panic("unexpected call: GetByNumber")
}

func (f *fakeRoundRepo) SetCompleted(ctx context.Context, exec repositories.SQLExecutor, roundID int, completed bool) error {
	panic("unexpected call: SetCompleted")
}

func (f *fakeRoundRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, roundID int) error {
	panic("unexpected call: Delete")
}

type fakeMatchRepo struct {
	rounds []models.Round
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	for _, r := range f.rounds {
		matches = append(matches, r.Matches...)
	}
	return matches, nil
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	panic("unexpected call: Create")
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	panic("unexpected call: GetByID")
}

func (f *fakeMatchRepo) ListByRound(ctx context.Context, roundID int) ([]models.Match, error) {
	panic("unexpected call: ListByRound")
}

func (f *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerID *int, score *string) error {
	panic("unexpected call: UpdateResult")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHub() *live.Hub {
	return live.NewHub(testLogger())
}

func intPtr(v int) *int { return &v }
