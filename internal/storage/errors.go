// ABOUTME: Sentinel errors returned by the training log store.
// ABOUTME: Callers branch on these with errors.Is.
package storage

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidIndex is returned when an insert position would break the
	// contiguous 1..N set numbering.
	ErrInvalidIndex = errors.New("set index out of range")
	// ErrInvalidDate is returned for malformed dates and year-months.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidInput is returned for empty names, negative loads and
	// unknown media types.
	ErrInvalidInput = errors.New("invalid input")
)
