package handler

import (
	"context"

	"github.com/sharemart/sharing-service/server/internal/model"
	"github.com/sharemart/sharing-service/server/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type UserService interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	Get(ctx context.Context, userID int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, userID int64, patch model.UserPatch) (model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ItemService interface {
	Create(ctx context.Context, userID int64, item model.Item) (model.Item, error)
	Get(ctx context.Context, userID, itemID int64) (model.Item, error)
	List(ctx context.Context, userID int64, page model.Page) ([]model.Item, error)
	Update(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (model.Item, error)
	Delete(ctx context.Context, userID, itemID int64) error
	Search(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	CreateComment(ctx context.Context, userID, itemID int64, comment model.Comment) (model.Comment, error)
}

type BookingService interface {
	Create(ctx context.Context, userID, itemID int64, draft model.Booking) (model.Booking, error)
	ChangeStatus(ctx context.Context, userID, bookingID int64, status model.BookingStatus) (model.Booking, error)
	GetByID(ctx context.Context, userID, bookingID int64) (model.Booking, error)
	ListForBooker(ctx context.Context, userID int64, state model.BookingState, page model.Page) ([]model.Booking, error)
	ListForOwner(ctx context.Context, userID int64, state model.BookingState, page model.Page) ([]model.Booking, error)
}

type ItemRequestService interface {
	Create(ctx context.Context, userID int64, request model.ItemRequest) (model.ItemRequest, error)
	Get(ctx context.Context, userID, requestID int64) (model.ItemRequest, error)
	ListOwn(ctx context.Context, userID int64) ([]model.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error)
}

var (
	_ UserService        = (*service.UserService)(nil)
	_ ItemService        = (*service.ItemService)(nil)
	_ BookingService     = (*service.BookingService)(nil)
	_ ItemRequestService = (*service.ItemRequestService)(nil)
)
