package types

import "errors"

// Medium is a durable key-value facility holding text values.
// Implementations live in internal/medium.
type Medium interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set or was removed.
	Get(key string) (value string, found bool, err error)

	// Set overwrites the value stored under key.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Close releases resources held by the medium.
	Close() error
}

// Medium errors.
var (
	ErrMediumClosed = errors.New("medium is closed")
)
