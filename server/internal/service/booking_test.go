package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
	repo_mocks "github.com/sharemart/sharing-service/server/internal/repository/mocks"
	"github.com/sharemart/sharing-service/server/internal/service"
)

type bookingMocks struct {
	bookings *repo_mocks.MockBookingRepository
	users    *repo_mocks.MockUserRepository
	items    *repo_mocks.MockItemRepository
	requests *repo_mocks.MockItemRequestRepository
}

func newBookingService(t *testing.T) (*service.BookingService, bookingMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := bookingMocks{
		bookings: repo_mocks.NewMockBookingRepository(ctrl),
		users:    repo_mocks.NewMockUserRepository(ctrl),
		items:    repo_mocks.NewMockItemRepository(ctrl),
		requests: repo_mocks.NewMockItemRequestRepository(ctrl),
	}
	svc := service.NewBookingService(m.bookings, m.users, m.items, m.requests, zap.NewNop())
	return svc, m
}

func dt(s string) model.DateTime {
	t, _ := time.Parse("2006-01-02T15:04:05", s)
	return model.DateTime{Time: t}
}

func TestBookingService_Create(t *testing.T) {
	t.Parallel()
	const (
		bookerID = int64(1)
		ownerID  = int64(2)
		itemID   = int64(3)
	)
	availableItem := model.Item{
		ID:        itemID,
		Name:      "drill",
		Available: true,
		Owner:     model.User{ID: ownerID},
	}
	draft := model.Booking{Start: dt("2030-01-01T10:00:00"), End: dt("2030-01-02T10:00:00")}

	var tests = []struct {
		name         string
		userID       int64
		draft        model.Booking
		mockBehavior func(m bookingMocks)
		wantErr      error
	}{
		{
			name:   "equal dates rejected before any lookup",
			userID: bookerID,
			draft: model.Booking{
				Start: dt("2030-01-01T10:00:00"),
				End:   dt("2030-01-01T10:00:00"),
			},
			mockBehavior: func(m bookingMocks) {},
			wantErr:      errs.ErrBadRequest,
		},
		{
			name:   "end before start rejected",
			userID: bookerID,
			draft: model.Booking{
				Start: dt("2030-01-02T10:00:00"),
				End:   dt("2030-01-01T10:00:00"),
			},
			mockBehavior: func(m bookingMocks) {},
			wantErr:      errs.ErrBadRequest,
		},
		{
			name:   "missing item",
			userID: bookerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				m.items.EXPECT().GetByID(gomock.Any(), itemID).
					Return(model.Item{}, errors.Wrapf(errs.ErrNotFound, "item %d", itemID))
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "owner cannot book own item, hidden as not found",
			userID: ownerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(availableItem, nil)
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "unavailable item",
			userID: bookerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				unavailable := availableItem
				unavailable.Available = false
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(unavailable, nil)
			},
			wantErr: errs.ErrBadRequest,
		},
		{
			name:   "dangling request reference propagates",
			userID: bookerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				requestID := int64(9)
				withRequest := availableItem
				withRequest.RequestID = &requestID
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(withRequest, nil)
				m.requests.EXPECT().GetByID(gomock.Any(), requestID).
					Return(model.ItemRequest{}, errors.Wrapf(errs.ErrNotFound, "request %d", requestID))
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "missing booker",
			userID: bookerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(availableItem, nil)
				m.users.EXPECT().GetByID(gomock.Any(), bookerID).
					Return(model.User{}, errors.Wrapf(errs.ErrNotFound, "user %d", bookerID))
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "ok",
			userID: bookerID,
			draft:  draft,
			mockBehavior: func(m bookingMocks) {
				booker := model.User{ID: bookerID, Name: "bob"}
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(availableItem, nil)
				m.users.EXPECT().GetByID(gomock.Any(), bookerID).Return(booker, nil)
				m.bookings.EXPECT().
					Create(gomock.Any(), draft, booker, availableItem, gomock.Nil()).
					Return(model.Booking{
						ID:     7,
						Start:  draft.Start,
						End:    draft.End,
						Status: model.StatusWaiting,
						Booker: booker,
						Item:   availableItem,
					}, nil)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newBookingService(t)
			tt.mockBehavior(m)

			booking, err := svc.Create(context.Background(), tt.userID, itemID, tt.draft)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.StatusWaiting, booking.Status)
			require.Equal(t, int64(7), booking.ID)
		})
	}
}

func TestBookingService_ChangeStatus(t *testing.T) {
	t.Parallel()
	const (
		ownerID   = int64(2)
		bookerID  = int64(1)
		itemID    = int64(3)
		bookingID = int64(7)
	)
	waiting := model.Booking{
		ID:     bookingID,
		Status: model.StatusWaiting,
		Booker: model.User{ID: bookerID},
		Item:   model.Item{ID: itemID},
	}
	item := model.Item{ID: itemID, Owner: model.User{ID: ownerID}, Available: true}

	var tests = []struct {
		name         string
		userID       int64
		mockBehavior func(m bookingMocks)
		wantErr      error
		wantStatus   model.BookingStatus
	}{
		{
			name:   "only the owner decides, others get not found",
			userID: bookerID,
			mockBehavior: func(m bookingMocks) {
				m.users.EXPECT().GetByID(gomock.Any(), bookerID).Return(model.User{ID: bookerID}, nil)
				m.bookings.EXPECT().GetByID(gomock.Any(), bookingID).Return(waiting, nil)
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:   "already decided",
			userID: ownerID,
			mockBehavior: func(m bookingMocks) {
				decided := waiting
				decided.Status = model.StatusApproved
				m.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(model.User{ID: ownerID}, nil)
				m.bookings.EXPECT().GetByID(gomock.Any(), bookingID).Return(decided, nil)
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
			},
			wantErr: errs.ErrBadRequest,
		},
		{
			name:   "ok",
			userID: ownerID,
			mockBehavior: func(m bookingMocks) {
				approved := waiting
				approved.Status = model.StatusApproved
				m.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(model.User{ID: ownerID}, nil)
				m.bookings.EXPECT().GetByID(gomock.Any(), bookingID).Return(waiting, nil)
				m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
				m.bookings.EXPECT().UpdateStatus(gomock.Any(), bookingID, model.StatusApproved).Return(approved, nil)
			},
			wantStatus: model.StatusApproved,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newBookingService(t)
			tt.mockBehavior(m)

			booking, err := svc.ChangeStatus(context.Background(), tt.userID, bookingID, model.StatusApproved)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, booking.Status)
		})
	}
}

func TestBookingService_GetByID(t *testing.T) {
	t.Parallel()
	const (
		ownerID    = int64(2)
		bookerID   = int64(1)
		strangerID = int64(5)
		itemID     = int64(3)
		bookingID  = int64(7)
	)
	booking := model.Booking{
		ID:     bookingID,
		Status: model.StatusWaiting,
		Booker: model.User{ID: bookerID},
		Item:   model.Item{ID: itemID},
	}
	item := model.Item{ID: itemID, Owner: model.User{ID: ownerID}}

	var tests = []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "booker sees it", userID: bookerID},
		{name: "owner sees it", userID: ownerID},
		{name: "stranger gets not found", userID: strangerID, wantErr: errs.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newBookingService(t)
			m.users.EXPECT().GetByID(gomock.Any(), tt.userID).Return(model.User{ID: tt.userID}, nil)
			m.bookings.EXPECT().GetByID(gomock.Any(), bookingID).Return(booking, nil)
			m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)

			got, err := svc.GetByID(context.Background(), tt.userID, bookingID)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, bookingID, got.ID)
		})
	}
}

func TestBookingService_ListChecksUser(t *testing.T) {
	t.Parallel()
	svc, m := newBookingService(t)
	m.users.EXPECT().GetByID(gomock.Any(), int64(42)).
		Return(model.User{}, errors.Wrapf(errs.ErrNotFound, "user %d", 42))

	_, err := svc.ListForBooker(context.Background(), 42, model.StateAll, model.NewPage(0, 10))
	require.True(t, errors.Is(err, errs.ErrNotFound))
}
