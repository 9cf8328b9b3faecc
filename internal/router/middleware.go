package router

import (
	"errors"
	"strconv"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/handler"
	"cookonomics/internal/metrics"
	"cookonomics/internal/service"
)

// resolveFailure marks errors produced while resolving a well-formed bearer
// token, as opposed to a missing or malformed Authorization header.
type resolveFailure struct {
	err error
}

func (f *resolveFailure) Error() string { return f.err.Error() }
func (f *resolveFailure) Unwrap() error { return f.err }

// bearerAuth resolves "Authorization: Bearer <token>" to the current user and
// stores it under handler.ContextKeyUser.
func bearerAuth(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyUser,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := authService.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return nil, &resolveFailure{err: err}
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var failure *resolveFailure
			if errors.As(err, &failure) {
				return failure.err
			}
			return apperrors.ErrUnauthorized
		},
	})
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// requestMetrics records request counts and latency per matched route. It
// must be registered before requestLogger so the response is committed by
// the time the status is read.
func requestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(method, route).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
