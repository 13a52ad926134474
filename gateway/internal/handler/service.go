package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/gateway/internal/service/sharing"
	"github.com/sharemart/sharing-service/pkg/breaker"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ SharingService = (*sharing.Service)(nil)

type SharingService interface {
	CB() *breaker.Breaker
	Proxy(c echo.Context) (data []byte, statusCode int, err error)
}
