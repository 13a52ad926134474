package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
	"github.com/sharemart/sharing-service/server/internal/repository"
)

type ItemService struct {
	log      *zap.Logger
	items    repository.ItemRepository
	users    repository.UserRepository
	bookings repository.BookingRepository
	comments repository.CommentRepository
	requests repository.ItemRequestRepository
}

func NewItemService(
	items repository.ItemRepository,
	users repository.UserRepository,
	bookings repository.BookingRepository,
	comments repository.CommentRepository,
	requests repository.ItemRequestRepository,
	log *zap.Logger,
) *ItemService {
	return &ItemService{
		log:      log.Named("item-svc"),
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
	}
}

func (s *ItemService) Create(ctx context.Context, userID int64, item model.Item) (model.Item, error) {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Item{}, err
	}
	if item.RequestID != nil {
		if _, err := s.requests.GetByID(ctx, *item.RequestID); err != nil {
			return model.Item{}, err
		}
	}
	return s.items.Create(ctx, owner, item)
}

// Get returns the item; the derived last/next approved bookings are only
// visible to the item's owner.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (model.Item, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Item{}, err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return model.Item{}, err
	}
	return s.inflate(ctx, item, item.Owner.ID == userID)
}

func (s *ItemService) List(ctx context.Context, userID int64, page model.Page) ([]model.Item, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByOwner(ctx, user.ID, page)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i], err = s.inflate(ctx, items[i], true); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *ItemService) Update(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (model.Item, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Item{}, err
	}
	return s.items.Update(ctx, user.ID, itemID, patch)
}

func (s *ItemService) Delete(ctx context.Context, userID, itemID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.items.Delete(ctx, user.ID, itemID)
}

func (s *ItemService) Search(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	return s.items.Search(ctx, text, page)
}

// CreateComment requires a completed approved booking of the item by the
// author; the booking store is the source of truth for eligibility.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, comment model.Comment) (model.Comment, error) {
	booking, err := s.bookings.FindApprovedCompletedFor(ctx, itemID, userID)
	if err != nil {
		return model.Comment{}, err
	}
	if booking == nil {
		return model.Comment{}, errors.Wrap(errs.ErrBadRequest, "no completed approved booking found")
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return model.Comment{}, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Comment{}, err
	}
	return s.comments.Create(ctx, item, author, comment)
}

// inflate attaches the read-time view fields: comments for everyone,
// last/next approved bookings for the owner only.
func (s *ItemService) inflate(ctx context.Context, item model.Item, ownerView bool) (model.Item, error) {
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		comments, err := s.comments.ListByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		item.Comments = comments
		return nil
	})
	if ownerView {
		gg.Go(func() error {
			last, err := s.bookings.FindLastApproved(ctx, item.ID)
			if err != nil {
				return err
			}
			if last != nil {
				item.LastBooking = last.Short()
			}
			return nil
		})
		gg.Go(func() error {
			next, err := s.bookings.FindNextApproved(ctx, item.ID)
			if err != nil {
				return err
			}
			if next != nil {
				item.NextBooking = next.Short()
			}
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return model.Item{}, err
	}
	return item, nil
}
