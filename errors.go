package trialfacet

import (
	"errors"
	"fmt"

	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/internal/resource"
	"github.com/hupe1980/trialfacet/store"
)

var (
	// ErrClosed is returned by operations on a closed service.
	ErrClosed = errors.New("trialfacet: closed")

	// ErrInvalidOption is returned when an option does not fit the service being built.
	ErrInvalidOption = errors.New("trialfacet: invalid option")

	// ErrInvalidRequest is returned when a request names unknown fields or
	// binds a filter to a field of another kind.
	ErrInvalidRequest = errors.New("trialfacet: invalid request")

	// ErrUnsupported is returned when a request needs an operation the
	// filters cannot perform.
	ErrUnsupported = errors.New("trialfacet: unsupported operation")

	// ErrOverloaded is returned when a selection is too large to fold
	// within the configured in-flight entity budget.
	ErrOverloaded = errors.New("trialfacet: overloaded")
)

// ErrEntityMismatch indicates a filter set built for another entity type.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrEntityMismatch struct {
	Expected string
	Actual   string
	cause    error
}

func (e *ErrEntityMismatch) Error() string {
	return fmt.Sprintf("entity mismatch: expected %q, got %q", e.Expected, e.Actual)
}

func (e *ErrEntityMismatch) Unwrap() error { return e.cause }

// translateError maps package errors onto the service's error surface.
// Configuration errors are passed through unchanged: they are programming
// errors, not request errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var cfg *filter.ConfigError
	if errors.As(err, &cfg) {
		return err
	}

	if errors.Is(err, filter.ErrUnknownField) || errors.Is(err, filter.ErrKindMismatch) ||
		errors.Is(err, filter.ErrInvalidSubKind) || errors.Is(err, filter.ErrUnknownKind) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if errors.Is(err, filter.ErrUnsupported) || errors.Is(err, store.ErrUnknownNode) {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if errors.Is(err, resource.ErrBudgetExceeded) {
		return fmt.Errorf("%w: %w", ErrOverloaded, err)
	}

	return err
}
