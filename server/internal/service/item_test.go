package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
	repo_mocks "github.com/sharemart/sharing-service/server/internal/repository/mocks"
	"github.com/sharemart/sharing-service/server/internal/service"
)

type itemMocks struct {
	items    *repo_mocks.MockItemRepository
	users    *repo_mocks.MockUserRepository
	bookings *repo_mocks.MockBookingRepository
	comments *repo_mocks.MockCommentRepository
	requests *repo_mocks.MockItemRequestRepository
}

func newItemService(t *testing.T) (*service.ItemService, itemMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := itemMocks{
		items:    repo_mocks.NewMockItemRepository(ctrl),
		users:    repo_mocks.NewMockUserRepository(ctrl),
		bookings: repo_mocks.NewMockBookingRepository(ctrl),
		comments: repo_mocks.NewMockCommentRepository(ctrl),
		requests: repo_mocks.NewMockItemRequestRepository(ctrl),
	}
	svc := service.NewItemService(m.items, m.users, m.bookings, m.comments, m.requests, zap.NewNop())
	return svc, m
}

func TestItemService_CreateComment(t *testing.T) {
	t.Parallel()
	const (
		authorID = int64(1)
		itemID   = int64(3)
	)
	item := model.Item{ID: itemID, Owner: model.User{ID: 2}}
	author := model.User{ID: authorID, Name: "bob"}
	comment := model.Comment{Text: "solid drill"}

	t.Run("no completed approved booking", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		m.bookings.EXPECT().FindApprovedCompletedFor(gomock.Any(), itemID, authorID).Return(nil, nil)

		_, err := svc.CreateComment(context.Background(), authorID, itemID, comment)
		require.True(t, errors.Is(err, errs.ErrBadRequest))
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		completed := &model.Booking{ID: 7, Status: model.StatusApproved}
		m.bookings.EXPECT().FindApprovedCompletedFor(gomock.Any(), itemID, authorID).Return(completed, nil)
		m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
		m.users.EXPECT().GetByID(gomock.Any(), authorID).Return(author, nil)
		m.comments.EXPECT().Create(gomock.Any(), item, author, comment).
			Return(model.Comment{ID: 1, Text: comment.Text, AuthorName: author.Name}, nil)

		created, err := svc.CreateComment(context.Background(), authorID, itemID, comment)
		require.NoError(t, err)
		require.Equal(t, author.Name, created.AuthorName)
	})
}

func TestItemService_GetInflatesOwnerView(t *testing.T) {
	t.Parallel()
	const (
		ownerID    = int64(2)
		strangerID = int64(5)
		itemID     = int64(3)
	)
	item := model.Item{ID: itemID, Name: "drill", Owner: model.User{ID: ownerID}}
	comments := []model.Comment{{ID: 1, Text: "ok", AuthorName: "bob"}}

	t.Run("owner sees last and next bookings", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		m.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(model.User{ID: ownerID}, nil)
		m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
		m.comments.EXPECT().ListByItem(gomock.Any(), itemID).Return(comments, nil)
		m.bookings.EXPECT().FindLastApproved(gomock.Any(), itemID).
			Return(&model.Booking{ID: 10, Booker: model.User{ID: 4}}, nil)
		m.bookings.EXPECT().FindNextApproved(gomock.Any(), itemID).
			Return(&model.Booking{ID: 11, Booker: model.User{ID: 6}}, nil)

		got, err := svc.Get(context.Background(), ownerID, itemID)
		require.NoError(t, err)
		require.Equal(t, comments, got.Comments)
		require.Equal(t, &model.ShortBooking{ID: 10, BookerID: 4}, got.LastBooking)
		require.Equal(t, &model.ShortBooking{ID: 11, BookerID: 6}, got.NextBooking)
	})

	t.Run("stranger only sees comments", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		m.users.EXPECT().GetByID(gomock.Any(), strangerID).Return(model.User{ID: strangerID}, nil)
		m.items.EXPECT().GetByID(gomock.Any(), itemID).Return(item, nil)
		m.comments.EXPECT().ListByItem(gomock.Any(), itemID).Return(comments, nil)

		got, err := svc.Get(context.Background(), strangerID, itemID)
		require.NoError(t, err)
		require.Equal(t, comments, got.Comments)
		require.Nil(t, got.LastBooking)
		require.Nil(t, got.NextBooking)
	})
}

func TestItemService_CreateResolvesRequest(t *testing.T) {
	t.Parallel()
	const (
		ownerID   = int64(2)
		requestID = int64(9)
	)
	owner := model.User{ID: ownerID}

	t.Run("dangling request", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		rid := requestID
		m.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(owner, nil)
		m.requests.EXPECT().GetByID(gomock.Any(), requestID).
			Return(model.ItemRequest{}, errors.Wrapf(errs.ErrNotFound, "request %d", requestID))

		_, err := svc.Create(context.Background(), ownerID, model.Item{Name: "drill", RequestID: &rid})
		require.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("ok without request", func(t *testing.T) {
		t.Parallel()
		svc, m := newItemService(t)
		item := model.Item{Name: "drill", Available: true}
		m.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(owner, nil)
		m.items.EXPECT().Create(gomock.Any(), owner, item).
			Return(model.Item{ID: 1, Name: "drill", Available: true, Owner: owner}, nil)

		created, err := svc.Create(context.Background(), ownerID, item)
		require.NoError(t, err)
		require.Equal(t, int64(1), created.ID)
	})
}
