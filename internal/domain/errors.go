package domain

import "errors"

// Sentinel errors for configuration and lookup failures. Callers match them
// with errors.Is; the simulation layer wraps them with context.
var (
	// ErrInvalidRecurrence is returned when a flow is added with a recurrence below one month.
	ErrInvalidRecurrence = errors.New("recurrence must be an integer >= 1")

	// ErrInvalidAllocation is returned when sweeping is active but the allocation
	// weights do not sum to a positive total.
	ErrInvalidAllocation = errors.New("allocation must have positive weights")

	// ErrInvalidGoal is returned when a target is constructed with a zero goal value.
	ErrInvalidGoal = errors.New("target goal value must be non-zero")

	// ErrObjectNotFound is returned when a lookup by (type, name) finds no live entity.
	ErrObjectNotFound = errors.New("object not found")

	// ErrUnknownEntityType is returned for an unrecognized entity type tag.
	ErrUnknownEntityType = errors.New("unknown entity type")
)
