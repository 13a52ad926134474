package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/gateway/internal/model"
)

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req model.UpdateUserRequest
	if err := bindValidate(c, &req); err != nil {
		return err
	}
	return h.Forward(c)
}
