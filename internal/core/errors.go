package core

import "errors"

// Error kinds returned by the services. Every error a service returns wraps exactly one
// of these so adapters can map it with errors.Is.
var (
	// ErrNotFound is returned when a referenced warehouse, product, category or inventory row is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with existing state, e.g. a product that is
	// already stocked or a duplicate unique key.
	ErrConflict = errors.New("conflict")

	// ErrCapacityExceeded is returned when a placement would push a warehouse above its max capacity.
	ErrCapacityExceeded = errors.New("warehouse capacity exceeded")

	// ErrInvalidArgument is returned for malformed requests.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolation signals corrupted persisted state (e.g. capacity that would go
	// negative). It is a server fault, never a client error, and is never corrected silently.
	ErrInvariantViolation = errors.New("inventory invariant violated")
)
