package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/app"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/flow"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and keeps the underlying cause in the message.
func WrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, cause)
}

// statusFor maps service and flow errors onto HTTP statuses. Anything
// unmapped is a server error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, flow.ErrEmptyName):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, flow.ErrStaleAnswer):
		return http.StatusConflict, "stale_answer"
	case errors.Is(err, flow.ErrIncomplete):
		return http.StatusConflict, "incomplete"
	case errors.Is(err, flow.ErrSessionComplete):
		return http.StatusConflict, "session_complete"
	case errors.Is(err, flow.ErrInvalidPhase):
		return http.StatusConflict, "invalid_phase"
	case errors.Is(err, flow.ErrUnknownQuestion):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
