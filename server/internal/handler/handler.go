package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/pkg/metrics"
	mw "github.com/sharemart/sharing-service/pkg/middleware"
	"github.com/sharemart/sharing-service/pkg/validate"
	"github.com/sharemart/sharing-service/server/internal/errs"
	"github.com/sharemart/sharing-service/server/internal/model"
)

// HeaderSharerUserID carries the id of the acting user. The caller is
// trusted; there is no authentication on this tier.
const HeaderSharerUserID = "X-Sharer-User-Id"

type Handler struct {
	userSvc    UserService
	itemSvc    ItemService
	bookingSvc BookingService
	requestSvc ItemRequestService
	log        *zap.Logger
}

func New(
	userSvc UserService,
	itemSvc ItemService,
	bookingSvc BookingService,
	requestSvc ItemRequestService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		userSvc:    userSvc,
		itemSvc:    itemSvc,
		bookingSvc: bookingSvc,
		requestSvc: requestSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter(m *metrics.Metrics) *echo.Echo {
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
	base.GET("/metrics", metrics.Handler())

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
		m.Middleware(),
	)

	users := api.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:userId", h.GetUser)
	users.PATCH("/:userId", h.UpdateUser)
	users.DELETE("/:userId", h.DeleteUser)

	items := api.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.ListItems)
	items.GET("/search", h.SearchItems)
	items.GET("/:itemId", h.GetItem)
	items.PATCH("/:itemId", h.UpdateItem)
	items.DELETE("/:itemId", h.DeleteItem)
	items.POST("/:itemId/comment", h.CreateComment)

	bookings := api.Group("/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/owner", h.ListOwnerBookings)
	bookings.GET("/:bookingId", h.GetBooking)
	bookings.PATCH("/:bookingId", h.ChangeBookingStatus)

	requests := api.Group("/requests")
	requests.POST("", h.CreateRequest)
	requests.GET("", h.ListOwnRequests)
	requests.GET("/all", h.ListOtherRequests)
	requests.GET("/:requestId", h.GetRequest)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// sharerID reads the acting user id from the X-Sharer-User-Id header.
func sharerID(c echo.Context) (int64, error) {
	raw := c.Request().Header.Get(HeaderSharerUserID)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, HeaderSharerUserID+" header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, HeaderSharerUserID+" header is not a number")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is not a number")
	}
	return id, nil
}

// pageQuery parses the from/size pagination pair with their defaults.
func pageQuery(c echo.Context) (model.Page, error) {
	var (
		from int
		size = 10
		err  error
	)
	if raw := c.QueryParam("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil || from < 0 {
			return model.Page{}, echo.NewHTTPError(http.StatusBadRequest, "from must be a non-negative number")
		}
	}
	if raw := c.QueryParam("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < 1 {
			return model.Page{}, echo.NewHTTPError(http.StatusBadRequest, "size must be a positive number")
		}
	}
	return model.NewPage(from, size), nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBadRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
