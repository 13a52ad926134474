package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/gateway/internal/model"
	"github.com/sharemart/sharing-service/pkg/kafka"
)

func (h *Handler) CreateBooking(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	var req model.CreateBookingRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	if !req.End.After(req.Start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be after start")
	}
	data, code, err := h.proxy(c)
	if err != nil {
		return err
	}
	if code == http.StatusOK {
		h.publishBookingEvent(model.BookingEventCreated, userID, data)
	}
	return respond(c, code, data)
}

// ListBookings rejects an unknown state filter at the edge, saving the
// round trip to the core server.
func (h *Handler) ListBookings(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	if state := c.QueryParam("state"); !model.ValidBookingState(state) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown state: "+state)
	}
	return h.Forward(c)
}

func (h *Handler) ChangeBookingStatus(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	switch c.QueryParam("approved") {
	case "true", "false":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "approved must be true or false")
	}
	data, code, err := h.proxy(c)
	if err != nil {
		return err
	}
	if code == http.StatusOK {
		h.publishBookingEvent(model.BookingEventStatusChanged, userID, data)
	}
	return respond(c, code, data)
}

// publishBookingEvent emits a lifecycle event from the core server's
// response. Delivery failures are logged, never surfaced to the caller.
func (h *Handler) publishBookingEvent(eventType string, userID int64, data []byte) {
	if h.enqueuer == nil {
		return
	}
	var booking model.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		h.log.Warn("booking event decode", zap.Error(err))
		return
	}
	event := model.BookingEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		ItemID:    booking.Item.ID,
		UserID:    userID,
		Status:    booking.Status,
		At:        time.Now().UTC(),
	}
	if err := h.enqueuer.Enqueue(kafka.BookingEventsTopic, event); err != nil {
		h.log.Warn("booking event enqueue", zap.Error(err))
	}
}
