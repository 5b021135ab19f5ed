package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field name is not declared by the schema.
	ErrUnknownField = errors.New("filter: unknown field")

	// ErrKindMismatch is returned when a filter variant does not fit the field it is bound to.
	ErrKindMismatch = errors.New("filter: filter kind does not match field")

	// ErrInvalidSubKind is returned when a map filter declares a sub-filter kind that cannot be constructed.
	ErrInvalidSubKind = errors.New("filter: invalid map sub-filter kind")

	// ErrNilFilter is returned when a declared field has no filter instance.
	ErrNilFilter = errors.New("filter: missing filter instance")

	// ErrUnknownKind is returned when the compiler meets a filter outside the closed variant set.
	ErrUnknownKind = errors.New("filter: unknown filter kind")

	// ErrUnsupported is returned by filter sets that cannot be compiled directly.
	ErrUnsupported = errors.New("filter: operation not supported")

	// ErrSchemaMismatch is returned when combining filter sets of different schemas.
	ErrSchemaMismatch = errors.New("filter: filter sets belong to different schemas")
)

// ConfigError reports a schema or filter set that is wired incorrectly.
//
// These are programming errors: they surface at schema construction or on the
// first compile, never silently degrade into an absent filter.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Entity string
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("filter: %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("filter: %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }
