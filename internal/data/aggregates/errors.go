package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates an empty or malformed required field.
	ErrValidation = errors.New("aggregate validation")
	// ErrNotFound indicates an id that does not resolve.
	ErrNotFound = errors.New("aggregate not found")
	// ErrForbidden indicates the requester does not own the target, directly or transitively.
	ErrForbidden = errors.New("aggregate forbidden")
	// ErrUnauthenticated indicates there is no current user.
	ErrUnauthenticated = errors.New("aggregate unauthenticated")
	// ErrConflict indicates a concurrency conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates a transient failure.
	ErrRetryable = errors.New("aggregate retryable")
)

func tag(sentinel error, msg string) error {
	return errors.Join(sentinel, errors.New(strings.TrimSpace(msg)))
}

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error { return tag(ErrValidation, msg) }

// NotFoundError tags an error as a missing record.
func NotFoundError(msg string) error { return tag(ErrNotFound, msg) }

// ForbiddenError tags an error as an ownership failure.
func ForbiddenError(msg string) error { return tag(ErrForbidden, msg) }

// UnauthenticatedError tags an error as a missing identity.
func UnauthenticatedError(msg string) error { return tag(ErrUnauthenticated, msg) }

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error { return tag(ErrConflict, msg) }

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error { return tag(ErrRetryable, msg) }

// MapError maps infrastructure and tagged failures into aggregate error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, ErrForbidden):
		return domainagg.Wrap(domainagg.CodeForbidden, op, err)
	case errors.Is(err, ErrUnauthenticated):
		return domainagg.Wrap(domainagg.CodeUnauthenticated, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23503":
			return domainagg.Wrap(domainagg.CodeNotFound, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}
