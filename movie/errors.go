package movie

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrCapacityExceeded indicates an append into a full store
	ErrCapacityExceeded = errors.New("record store capacity exceeded")
	// ErrNotFound indicates a lookup by index or id missed
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidCapacity indicates a negative capacity was requested
	ErrInvalidCapacity = errors.New("invalid store capacity")
	// ErrInvalidCount indicates a logical count outside [0, capacity]
	ErrInvalidCount = errors.New("invalid store count")
)

// CapacityError is returned by Append when the store is full.
type CapacityError struct {
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot append: store is full (capacity %d)", e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
