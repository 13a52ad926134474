package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/gateway/internal/model"
)

func (h *Handler) CreateRequest(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	var req model.CreateItemRequestRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}
