package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/spawnbot/internal/services/web/platform/errors"
)

// Codes reported by the engine alongside a message.
const (
	CodeInvalidCredentials = "INVALID_EMAIL_OR_PASSWORD"
	CodeUserExists         = "USER_ALREADY_EXISTS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeSlugTaken          = "ORGANIZATION_SLUG_TAKEN"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidInput       = "INVALID_INPUT"
)

// Error is the engine's standard error: a rejection the engine chose to
// report, with a message that is safe to show to users.
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error renders the engine message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("engine status %d", e.Status)
}

// Kind maps the engine status to a web error kind.
func (e *Error) Kind() apperrors.Kind {
	if e == nil {
		return apperrors.KindUnknown
	}
	switch e.Status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.KindInvalidInput
	case http.StatusUnauthorized:
		return apperrors.KindUnauthorized
	case http.StatusForbidden:
		return apperrors.KindForbidden
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusConflict:
		return apperrors.KindConflict
	case http.StatusServiceUnavailable:
		return apperrors.KindUnavailable
	default:
		return apperrors.KindUnknown
	}
}

// Reject builds an engine rejection.
func Reject(status int, code string, message string) *Error {
	return &Error{Status: status, Code: strings.TrimSpace(code), Message: strings.TrimSpace(message)}
}

// AsError extracts an engine rejection from err.
func AsError(err error) (*Error, bool) {
	var engineErr *Error
	if !errors.As(err, &engineErr) || engineErr == nil {
		return nil, false
	}
	return engineErr, true
}
