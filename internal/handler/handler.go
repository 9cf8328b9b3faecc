package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

// ContextKeyUser is the echo context key holding the authenticated *model.User.
const ContextKeyUser = "user"

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// currentUser returns the user resolved by the bearer-token middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(ContextKeyUser).(*model.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, apperrors.NewValidationError("id must be a positive integer")
	}
	return uint(id), nil
}

// pagination reads skip and limit, defaulting to 0 and 100.
func pagination(c echo.Context) (skip, limit int, err error) {
	skip, limit = 0, defaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError(); err != nil {
		return 0, 0, apperrors.NewValidationError("skip and limit must be integers")
	}
	if skip < 0 {
		return 0, 0, apperrors.NewValidationError("skip must be greater than or equal to 0")
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}
	return skip, limit, nil
}

// bindAndValidate decodes the request into dst and runs the echo validator.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return c.Validate(dst)
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps domain errors to their HTTP status codes,
//   - logs unexpected errors without leaking details to the client,
//   - renders {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, apperrors.ErrorResponse) {
	// Echo's own errors (router 404/405, body too large, ...).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
			return he.Code, apperrors.ErrorResponse{Detail: http.StatusText(he.Code)}
		}
		return he.Code, apperrors.ErrorResponse{Detail: fmt.Sprintf("%v", he.Message)}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		logUnexpected(log, c, err)
	}
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
