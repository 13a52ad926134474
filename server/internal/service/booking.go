package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
	"github.com/sharemart/sharing-service/server/internal/repository"
)

// BookingService owns the booking lifecycle: it is the only writer of
// booking state and enforces the temporal, availability and ownership rules
// across users, items and requests.
type BookingService struct {
	log      *zap.Logger
	bookings repository.BookingRepository
	users    repository.UserRepository
	items    repository.ItemRepository
	requests repository.ItemRequestRepository
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	items repository.ItemRepository,
	requests repository.ItemRequestRepository,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		log:      log.Named("booking-svc"),
		bookings: bookings,
		users:    users,
		items:    items,
		requests: requests,
	}
}

// Create validates and persists a new booking request. The draft only
// carries the desired start and end; status is forced to WAITING.
func (s *BookingService) Create(ctx context.Context, userID, itemID int64, draft model.Booking) (model.Booking, error) {
	if draft.Start.Equal(draft.End.Time) {
		return model.Booking{}, errors.Wrap(errs.ErrBadRequest, "booking start and end dates are equal")
	}
	if draft.End.Before(draft.Start.Time) {
		return model.Booking{}, errors.Wrap(errs.ErrBadRequest, "booking end date is before its start date")
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return model.Booking{}, err
	}
	// owners never book their own items; reported as not-found so the
	// response does not disclose ownership
	if item.Owner.ID == userID {
		return model.Booking{}, errors.Wrap(errs.ErrNotFound, "no access")
	}
	if !item.Available {
		return model.Booking{}, errors.Wrapf(errs.ErrBadRequest, "item %d is not available for booking", itemID)
	}
	var request *model.ItemRequest
	if item.RequestID != nil {
		found, err := s.requests.GetByID(ctx, *item.RequestID)
		if err != nil {
			return model.Booking{}, err
		}
		request = &found
	}
	booker, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Booking{}, err
	}
	return s.bookings.Create(ctx, draft, booker, item, request)
}

// ChangeStatus lets the item's owner decide a WAITING booking exactly once.
func (s *BookingService) ChangeStatus(ctx context.Context, userID, bookingID int64, status model.BookingStatus) (model.Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Booking{}, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	// authoritative re-fetch, the copy embedded in the booking is not trusted
	item, err := s.items.GetByID(ctx, booking.Item.ID)
	if err != nil {
		return model.Booking{}, err
	}
	if item.Owner.ID != userID {
		return model.Booking{}, errors.Wrap(errs.ErrNotFound, "no access")
	}
	if booking.Status != model.StatusWaiting {
		return model.Booking{}, errors.Wrapf(errs.ErrBadRequest, "booking %d status is already set", bookingID)
	}
	return s.bookings.UpdateStatus(ctx, bookingID, status)
}

// GetByID returns the booking to its booker or the item's owner; anyone
// else learns nothing beyond "not found".
func (s *BookingService) GetByID(ctx context.Context, userID, bookingID int64) (model.Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Booking{}, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	item, err := s.items.GetByID(ctx, booking.Item.ID)
	if err != nil {
		return model.Booking{}, err
	}
	if booking.Booker.ID == userID || item.Owner.ID == userID {
		return booking, nil
	}
	return model.Booking{}, errors.Wrap(errs.ErrNotFound, "no access")
}

func (s *BookingService) ListForBooker(ctx context.Context, userID int64, state model.BookingState, page model.Page) ([]model.Booking, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByBooker(ctx, user.ID, state, page)
}

func (s *BookingService) ListForOwner(ctx context.Context, userID int64, state model.BookingState, page model.Page) ([]model.Booking, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByItemOwner(ctx, user.ID, state, page)
}
