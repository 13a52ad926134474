package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/model"
	"github.com/sharemart/sharing-service/server/internal/repository"
)

type ItemRequestService struct {
	log      *zap.Logger
	requests repository.ItemRequestRepository
	users    repository.UserRepository
}

func NewItemRequestService(requests repository.ItemRequestRepository, users repository.UserRepository, log *zap.Logger) *ItemRequestService {
	return &ItemRequestService{
		log:      log.Named("request-svc"),
		requests: requests,
		users:    users,
	}
}

func (s *ItemRequestService) Create(ctx context.Context, userID int64, request model.ItemRequest) (model.ItemRequest, error) {
	creator, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.ItemRequest{}, err
	}
	return s.requests.Create(ctx, creator, request)
}

func (s *ItemRequestService) Get(ctx context.Context, userID, requestID int64) (model.ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.ItemRequest{}, err
	}
	return s.requests.GetByID(ctx, requestID)
}

// ListOwn returns the user's requests with the items created to fulfill them.
func (s *ItemRequestService) ListOwn(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.ListByCreator(ctx, userID)
}

func (s *ItemRequestService) ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.ListOthers(ctx, userID, page)
}
