package service

import (
	"context"

	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/repository"
)

// UserService exposes the admin-facing user lookups used when assigning
// riders and drivers to rides.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]model.User, int, error) {
	users, total, err := s.userRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, total, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
