package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/gateway/internal/model"
)

func (h *Handler) CreateItem(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	var req model.CreateItemRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	var req model.UpdateItemRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}

func (h *Handler) CreateComment(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	var req model.CreateCommentRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}
