package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrEmailTaken is returned when a user changes email to one held by another user.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidToken is returned when a bearer token is malformed, badly signed or expired.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized is returned when no current user can be resolved from a token.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrInactiveAccount is returned when the resolved user is deactivated.
	ErrInactiveAccount = errors.New("inactive user")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrItemNotFound is returned when an item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("not enough permissions")
)

// ValidationError reports malformed input or a violated field constraint.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with a client-facing message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Detail: e.Message,
		Code:   e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// collapses to a generic 500 so internal error text never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, "User with this email already exists", "DUPLICATE_EMAIL")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, "Email already taken", "EMAIL_TAKEN")
	case errors.Is(err, ErrInactiveAccount):
		return NewHTTPError(http.StatusBadRequest, "Inactive user", "INACTIVE_ACCOUNT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Incorrect email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Could not validate credentials", "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "Not enough permissions", "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, "Item not found", "ITEM_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}

// IsExpected reports whether err belongs to the domain taxonomy, as opposed
// to an unexpected store or hashing failure that must be logged.
func IsExpected(err error) bool {
	return MapErrorToHTTP(err).StatusCode != http.StatusInternalServerError
}
