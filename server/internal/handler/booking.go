package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/server/internal/model"
)

type createBookingRequest struct {
	ItemID int64          `json:"itemId"`
	Start  model.DateTime `json:"start"`
	End    model.DateTime `json:"end"`
}

func (h *Handler) CreateBooking(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft := model.Booking{Start: req.Start, End: req.End}
	booking, err := h.bookingSvc.Create(c.Request().Context(), userID, req.ItemID, draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// ChangeBookingStatus approves or rejects a waiting booking, driven by the
// approved query flag.
func (h *Handler) ChangeBookingStatus(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	status := model.StatusRejected
	switch c.QueryParam("approved") {
	case "true":
		status = model.StatusApproved
	case "false":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "approved must be true or false")
	}
	booking, err := h.bookingSvc.ChangeStatus(c.Request().Context(), userID, bookingID, status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *Handler) GetBooking(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	booking, err := h.bookingSvc.GetByID(c.Request().Context(), userID, bookingID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *Handler) ListBookings(c echo.Context) error {
	return h.listBookings(c, h.bookingSvc.ListForBooker)
}

func (h *Handler) ListOwnerBookings(c echo.Context) error {
	return h.listBookings(c, h.bookingSvc.ListForOwner)
}

func (h *Handler) listBookings(c echo.Context, list func(ctx context.Context, userID int64, state model.BookingState, page model.Page) ([]model.Booking, error)) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	state, err := model.ParseBookingState(c.QueryParam("state"))
	if err != nil {
		return httpError(err)
	}
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	bookings, err := list(c.Request().Context(), userID, state, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bookings)
}
