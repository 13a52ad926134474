package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/server/internal/model"
)

func (h *Handler) CreateRequest(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	var request model.ItemRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.requestSvc.Create(c.Request().Context(), userID, request)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *Handler) GetRequest(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "requestId")
	if err != nil {
		return err
	}
	request, err := h.requestSvc.Get(c.Request().Context(), userID, requestID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, request)
}

func (h *Handler) ListOwnRequests(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	requests, err := h.requestSvc.ListOwn(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) ListOtherRequests(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	requests, err := h.requestSvc.ListOthers(c.Request().Context(), userID, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}
