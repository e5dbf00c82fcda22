package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/cinefav/internal/shared"
)

// UserError is the error every [FavoritesController] operation returns.
//
// Error yields a short message fit for display; Unwrap exposes the cause
// so callers can still match sentinels with [errors.Is].
type UserError struct {
	Op      string
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// Detail includes the operation and cause, for logs.
func (e *UserError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// NewUserError wraps err for display. An existing [UserError] in the chain is returned as-is.
func NewUserError(op string, err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return &UserError{Op: op, Message: UserMessage(err), Err: err}
}

// UserMessage maps an error to a short message for display.
func UserMessage(err error) string {
	var apiErr *shared.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrNotInitialized):
		return "Favorites are not loaded yet."
	case errors.Is(err, shared.ErrEmptyList):
		return "Add at least one movie before saving."
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidMovie):
		return capitalize(err.Error())
	case errors.Is(err, shared.ErrListNotFound):
		return "That list no longer exists."
	case errors.Is(err, context.Canceled):
		return "Operation canceled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out."
	case errors.Is(err, shared.ErrNetwork):
		return "Could not reach the favorites server. Check your connection."
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "The favorites server is unavailable. Try again later."
	case errors.Is(err, shared.ErrMalformedResponse):
		return "The server sent an unexpected response."
	case errors.Is(err, shared.ErrLocalStorage):
		return "Could not save favorites on this device."
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return "Server error: " + apiErr.Message
		}
		return fmt.Sprintf("Server error (status %d).", apiErr.StatusCode)
	default:
		return "Something went wrong. Check the log for details."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
