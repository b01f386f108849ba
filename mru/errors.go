package mru

import "errors"

// The cache reports failures as sentinel errors so callers can branch
// with errors.Is. A nil error with a nil handle from Get is a plain
// miss, not a failure.
var (
	// ErrNilCache is returned when a method is invoked on a nil cache.
	ErrNilCache = errors.New("mru: nil cache")

	// ErrClosed is returned for any operation after Close.
	ErrClosed = errors.New("mru: cache is closed")

	// ErrNegativeCapacity is returned by New when maxItems < 0.
	ErrNegativeCapacity = errors.New("mru: negative capacity")

	// ErrEmptyID is returned when an operation is given an empty id.
	ErrEmptyID = errors.New("mru: empty id")

	// ErrIDTooLong is returned when an id exceeds MaxIDLen bytes.
	ErrIDTooLong = errors.New("mru: id exceeds maximum length")
)
