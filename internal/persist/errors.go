package persist

import (
	"errors"
	"fmt"
)

// ErrNotFound means no snapshot is stored. It is a legitimate empty state.
var ErrNotFound = errors.New("snapshot not found")

// SerializationError indicates a snapshot could not be encoded or decoded.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// MediumError indicates the durable medium is unavailable or rejected
// the operation.
type MediumError struct {
	Op  string
	Key string
	Err error
}

func (e *MediumError) Error() string {
	return fmt.Sprintf("medium %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *MediumError) Unwrap() error {
	return e.Err
}
