package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobanhq/tournament-server/models"
	"github.com/gobanhq/tournament-server/repositories"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, id, currentUserID int, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id, currentUserID int) error
}

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Update modifies a user's own profile. Admins may modify anyone.
func (s *userService) Update(ctx context.Context, id, currentUserID int, input UpdateUserInput) (*models.User, error) {
	if err := s.authorize(ctx, id, currentUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, mapRepoNotFound(err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id, currentUserID int) error {
	if err := s.authorize(ctx, id, currentUserID); err != nil {
		return err
	}
	return mapRepoNotFound(s.userRepo.Delete(ctx, id))
}

func (s *userService) authorize(ctx context.Context, targetID, currentUserID int) error {
	if targetID == currentUserID {
		return nil
	}
	current, err := s.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		return mapRepoNotFound(err)
	}
	if current.Role != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	return nil
}
