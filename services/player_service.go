package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
	"github.com/gobanhq/tournament-server/storage"
	"github.com/google/uuid"
)

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, limit, offset int) ([]models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error)
}

type CreatePlayerInput struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
}

type UpdatePlayerInput struct {
	Name  *string  `json:"name"`
	Rank  *string  `json:"rank"`
	Score *float64 `json:"score"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		Name: name,
		Rank: strings.TrimSpace(input.Rank),
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	populatePlayerURL(player, s.uploader)
	return player, nil
}

func (s *playerService) List(ctx context.Context, limit, offset int) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for i := range players {
		populatePlayerURL(&players[i], s.uploader)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPlayerNameRequired
		}
		player.Name = name
	}
	if input.Rank != nil {
		player.Rank = strings.TrimSpace(*input.Rank)
	}
	if input.Score != nil {
		player.Score = *input.Score
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, mapRepoNotFound(err)
	}
	populatePlayerURL(player, s.uploader)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerInUse) {
			return ErrPlayerInUse
		}
		return mapRepoNotFound(err)
	}
	return nil
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	key := fmt.Sprintf("players/%d/avatar-%s", playerID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}

	oldKey := player.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		// The new object is orphaned if the DB update fails; clean it up.
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, mapRepoNotFound(err)
	}
	if oldKey != nil && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.AvatarKey = &result.Key
	populatePlayerURL(player, s.uploader)
	return player, nil
}
