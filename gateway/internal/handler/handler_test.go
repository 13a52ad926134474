package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_handler "github.com/sharemart/sharing-service/gateway/internal/handler/mocks"
	"github.com/sharemart/sharing-service/gateway/internal/model"
	"github.com/sharemart/sharing-service/pkg/breaker"
	"github.com/sharemart/sharing-service/pkg/kafka"
	"github.com/sharemart/sharing-service/pkg/validate"
)

func newTestRouter(t *testing.T) (*echo.Echo, *mock_handler.MockSharingService, *Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mock_handler.NewMockSharingService(ctrl)
	h := &Handler{sharingSvc: svc, log: zap.NewNop()}
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return e, svc, h
}

func TestGateway_CreateUserValidation(t *testing.T) {
	t.Parallel()
	e, svc, h := newTestRouter(t)
	e.POST("/users", h.CreateUser)

	t.Run("invalid email stops at the gateway", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"bob","email":"not-an-email"}`))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid body forwarded as-is", func(t *testing.T) {
		body := `{"name":"bob","email":"bob@mail.com"}`
		svc.EXPECT().CB().Return(breaker.New(10, time.Second, 0.5, 1))
		svc.EXPECT().Proxy(gomock.Any()).DoAndReturn(func(c echo.Context) ([]byte, int, error) {
			forwarded, err := io.ReadAll(c.Request().Body)
			require.NoError(t, err)
			require.JSONEq(t, body, string(forwarded))
			return []byte(`{"id":1,"name":"bob","email":"bob@mail.com"}`), http.StatusOK, nil
		})

		r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"id":1,"name":"bob","email":"bob@mail.com"}`, w.Body.String())
	})
}

func TestGateway_CreateBookingValidation(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name string
		body string
	}{
		{name: "start in the past", body: `{"itemId":3,"start":"2001-01-01T10:00:00","end":"2030-01-02T10:00:00"}`},
		{name: "missing item id", body: `{"start":"2030-01-01T10:00:00","end":"2030-01-02T10:00:00"}`},
		{name: "missing end", body: `{"itemId":3,"start":"2030-01-01T10:00:00"}`},
		{name: "end not after start", body: `{"itemId":3,"start":"2030-01-02T10:00:00","end":"2030-01-01T10:00:00"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _, h := newTestRouter(t)
			e.POST("/bookings", h.CreateBooking)

			r := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(HeaderSharerUserID, "1")
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGateway_SharerHeaderRequired(t *testing.T) {
	t.Parallel()
	e, _, h := newTestRouter(t)
	e.GET("/bookings", h.ForwardSharer)

	r := httptest.NewRequest(http.MethodGet, "/bookings", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"X-Sharer-User-Id header is required"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestGateway_BookingStateValidatedAtEdge(t *testing.T) {
	t.Parallel()

	t.Run("unknown state stops at the gateway", func(t *testing.T) {
		t.Parallel()
		e, _, h := newTestRouter(t)
		e.GET("/bookings", h.ListBookings)

		r := httptest.NewRequest(http.MethodGet, "/bookings?state=SOMETHING", http.NoBody)
		r.Header.Set(HeaderSharerUserID, "1")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, `{"message":"Unknown state: SOMETHING"}`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("lowercase state stops at the gateway", func(t *testing.T) {
		t.Parallel()
		e, _, h := newTestRouter(t)
		e.GET("/bookings/owner", h.ListBookings)

		r := httptest.NewRequest(http.MethodGet, "/bookings/owner?state=waiting", http.NoBody)
		r.Header.Set(HeaderSharerUserID, "1")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("known state forwarded", func(t *testing.T) {
		t.Parallel()
		e, svc, h := newTestRouter(t)
		e.GET("/bookings", h.ListBookings)

		svc.EXPECT().CB().Return(breaker.New(10, time.Second, 0.5, 1))
		svc.EXPECT().Proxy(gomock.Any()).Return([]byte(`[]`), http.StatusOK, nil)

		r := httptest.NewRequest(http.MethodGet, "/bookings?state=WAITING", http.NoBody)
		r.Header.Set(HeaderSharerUserID, "1")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

type captureEnqueuer struct {
	topic string
	event any
}

func (q *captureEnqueuer) Enqueue(topic string, v any) error {
	q.topic = topic
	q.event = v
	return nil
}

func TestGateway_BookingCreatedEventPublished(t *testing.T) {
	t.Parallel()
	e, svc, h := newTestRouter(t)
	queue := &captureEnqueuer{}
	h.enqueuer = queue
	e.POST("/bookings", h.CreateBooking)

	svc.EXPECT().CB().Return(breaker.New(10, time.Second, 0.5, 1))
	svc.EXPECT().Proxy(gomock.Any()).
		Return([]byte(`{"id":7,"status":"WAITING","item":{"id":3},"booker":{"id":1}}`), http.StatusOK, nil)

	r := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"itemId":3,"start":"2030-01-01T10:00:00","end":"2030-01-02T10:00:00"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(HeaderSharerUserID, "1")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, kafka.BookingEventsTopic, queue.topic)
	event, ok := queue.event.(model.BookingEvent)
	require.True(t, ok)
	require.Equal(t, model.BookingEventCreated, event.Type)
	require.Equal(t, int64(7), event.BookingID)
	require.Equal(t, int64(3), event.ItemID)
	require.Equal(t, int64(1), event.UserID)
	require.Equal(t, "WAITING", event.Status)
	require.NotEmpty(t, event.EventID)
}

func TestGateway_ProxyFailureMapsToServiceUnavailable(t *testing.T) {
	t.Parallel()
	e, svc, h := newTestRouter(t)
	e.GET("/items/search", h.Forward)

	svc.EXPECT().CB().Return(breaker.New(10, time.Second, 0.5, 1))
	svc.EXPECT().Proxy(gomock.Any()).Return(nil, 0, errors.New("connection refused"))

	r := httptest.NewRequest(http.MethodGet, "/items/search?text=drill", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
