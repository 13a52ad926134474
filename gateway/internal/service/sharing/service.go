package sharing

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/gateway/config"
	"github.com/sharemart/sharing-service/pkg/breaker"
)

const requestIDHeader = "X-Request-Id"

// Service forwards requests to the core sharing server as-is and reports
// transport failures to its circuit breaker.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.SharingHTTPServer
	cb     *breaker.Breaker
}

func NewService(log *zap.Logger, cfg config.Config) *Service { //nolint:gocritic
	return &Service{
		log:    log,
		client: &http.Client{Timeout: time.Minute},
		cfg:    cfg.SharingHTTPServer,
		cb:     breaker.New(100, time.Second, 0.2, 2),
	}
}

func (s *Service) CB() *breaker.Breaker {
	return s.cb
}

// Proxy replays the inbound request against the core server, preserving
// method, path, query and headers. A correlation id is attached when the
// caller did not send one.
func (s *Service) Proxy(c echo.Context) (data []byte, statusCode int, err error) {
	ur := c.Request().URL
	ur.Scheme = "http"
	ur.Host = net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	req, err := http.NewRequestWithContext(c.Request().Context(), c.Request().Method, ur.String(), c.Request().Body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	req.Header = c.Request().Header.Clone()
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.NewString())
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, http.StatusServiceUnavailable, err
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return data, resp.StatusCode, nil
}
