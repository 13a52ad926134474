package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/gateway/config"
	"github.com/sharemart/sharing-service/gateway/internal/errs"
	"github.com/sharemart/sharing-service/gateway/internal/service/sharing"
	"github.com/sharemart/sharing-service/pkg/breaker"
	mw "github.com/sharemart/sharing-service/pkg/middleware"
	"github.com/sharemart/sharing-service/pkg/validate"
)

const HeaderSharerUserID = "X-Sharer-User-Id"

type Handler struct {
	sharingSvc SharingService
	enqueuer   Enqueuer
	log        *zap.Logger
}

// New builds the gateway handler. The producer may be nil when the event
// pipeline is disabled; booking events are then skipped.
func New(log *zap.Logger, cfg config.Config, producer sarama.SyncProducer) *Handler { //nolint:gocritic
	h := &Handler{
		sharingSvc: sharing.NewService(log, cfg),
		log:        log,
	}
	if producer != nil {
		h.enqueuer = NewEnqueuer(producer)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
	)

	users := api.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.Forward)
	users.GET("/:userId", h.Forward)
	users.PATCH("/:userId", h.UpdateUser)
	users.DELETE("/:userId", h.Forward)

	items := api.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.ForwardSharer)
	items.GET("/search", h.Forward)
	items.GET("/:itemId", h.ForwardSharer)
	items.PATCH("/:itemId", h.UpdateItem)
	items.DELETE("/:itemId", h.ForwardSharer)
	items.POST("/:itemId/comment", h.CreateComment)

	bookings := api.Group("/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/owner", h.ListBookings)
	bookings.GET("/:bookingId", h.ForwardSharer)
	bookings.PATCH("/:bookingId", h.ChangeBookingStatus)

	requests := api.Group("/requests")
	requests.POST("", h.CreateRequest)
	requests.GET("", h.ForwardSharer)
	requests.GET("/all", h.ForwardSharer)
	requests.GET("/:requestId", h.ForwardSharer)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Forward proxies the request without touching the body.
func (h *Handler) Forward(c echo.Context) error {
	data, code, err := h.proxy(c)
	if err != nil {
		return err
	}
	return respond(c, code, data)
}

// ForwardSharer proxies the request after checking the sharer header, so a
// missing header fails fast without a round trip to the core server.
func (h *Handler) ForwardSharer(c echo.Context) error {
	if _, err := sharerID(c); err != nil {
		return err
	}
	return h.Forward(c)
}

func (h *Handler) proxy(c echo.Context) ([]byte, int, error) {
	var (
		data []byte
		code int
	)
	if err := h.sharingSvc.CB().Call(func() error {
		var err error
		data, code, err = h.sharingSvc.Proxy(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return nil
	}); err != nil {
		if errors.Is(err, breaker.ErrOpen) {
			return nil, 0, echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return nil, 0, err
	}
	return data, code, nil
}

func respond(c echo.Context, code int, data []byte) error {
	if len(data) == 0 {
		return c.NoContent(code)
	}
	return c.JSONBlob(code, data)
}

func sharerID(c echo.Context) (int64, error) {
	raw := c.Request().Header.Get(HeaderSharerUserID)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errs.ErrSharerID.Error())
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, HeaderSharerUserID+" header is not a number")
	}
	return id, nil
}

// bindValidate decodes the body into req for validation and rewinds it so
// the proxy still forwards the caller's original bytes.
func bindValidate(c echo.Context, req any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))
	if err := json.Unmarshal(body, req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Validate(req)
}
