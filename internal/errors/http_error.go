package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// One constructor per rejection kind. Handlers surface the code and message
// as-is; anything that is not an *HTTPError becomes a generic 500.

func InvalidInput(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

// InvalidReference marks an identifier that does not resolve to the expected
// role (e.g. a doctorId pointing at a patient).
func InvalidReference(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

func Unauthorized(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }

func Forbidden(msg string) *HTTPError { return NewHTTPError(http.StatusForbidden, msg) }

func NotFound(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }

func PastOrTooSoon(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

func DailyLimitExceeded(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

func CancellationWindow(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }

func SlotUnavailable(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
