package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/sharemart/sharing-service/server/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

const (
	usersTableName    = `users`
	itemsTableName    = `items`
	bookingsTableName = `bookings`
	commentsTableName = `comments`
	requestsTableName = `requests`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, userID int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, userID int64, patch model.UserPatch) (model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ItemRepository interface {
	Create(ctx context.Context, owner model.User, item model.Item) (model.Item, error)
	GetByID(ctx context.Context, itemID int64) (model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error)
	Search(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, patch model.ItemPatch) (model.Item, error)
	Delete(ctx context.Context, ownerID, itemID int64) error
}

type ItemRequestRepository interface {
	Create(ctx context.Context, creator model.User, request model.ItemRequest) (model.ItemRequest, error)
	GetByID(ctx context.Context, requestID int64) (model.ItemRequest, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]model.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.ItemRequest, error)
}

type CommentRepository interface {
	Create(ctx context.Context, item model.Item, author model.User, comment model.Comment) (model.Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Comment, error)
}

// BookingRepository is the storage port of the booking engine; it is the
// only writer of booking state.
type BookingRepository interface {
	Create(ctx context.Context, draft model.Booking, booker model.User, item model.Item, request *model.ItemRequest) (model.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (model.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, status model.BookingStatus) (model.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, page model.Page) ([]model.Booking, error)
	ListByItemOwner(ctx context.Context, ownerID int64, state model.BookingState, page model.Page) ([]model.Booking, error)
	FindLastApproved(ctx context.Context, itemID int64) (*model.Booking, error)
	FindNextApproved(ctx context.Context, itemID int64) (*model.Booking, error)
	FindApprovedCompletedFor(ctx context.Context, itemID, userID int64) (*model.Booking, error)
}
