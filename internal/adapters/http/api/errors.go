package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/skillgap/internal/adapters/catalog"
	"github.com/okian/skillgap/internal/adapters/mq/queue"
	"github.com/okian/skillgap/internal/adapters/repository"
	"github.com/okian/skillgap/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrBackpressure  = errors.New("backpressure")
	ErrRateLimited   = errors.New("rate limited")
	ErrLimitExceeded = errors.New("limit exceeded")

	errMissingRole = errors.New("missing role query parameter")
)

// Wrap prefixes err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with kind so errors.Is matches both.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case model.IsInvalidInput(err):
		return http.StatusBadRequest, "invalid_input"
	case model.IsInternalInvariant(err):
		return http.StatusInternalServerError, "internal_invariant"
	case errors.Is(err, catalog.ErrRoleNotFound):
		return http.StatusNotFound, "role_not_found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, queue.ErrFull), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, queue.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
