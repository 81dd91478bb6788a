package storage

import "errors"

// Storage errors for the write-once stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. Summaries are write-once per run;
	// stores never update in place.
	ErrDuplicateKey = errors.New("duplicate key: write-once store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
