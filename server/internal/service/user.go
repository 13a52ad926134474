package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/model"
	"github.com/sharemart/sharing-service/server/internal/repository"
)

type UserService struct {
	log   *zap.Logger
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		log:   log.Named("user-svc"),
		users: users,
	}
}

func (s *UserService) Create(ctx context.Context, user model.User) (model.User, error) {
	return s.users.Create(ctx, user)
}

func (s *UserService) Get(ctx context.Context, userID int64) (model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, userID int64, patch model.UserPatch) (model.User, error) {
	return s.users.Update(ctx, userID, patch)
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}
