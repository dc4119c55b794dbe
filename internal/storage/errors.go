package storage

import "errors"

var (
	// ErrNotFound is returned when no record with the requested id exists in a collection.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable is returned when the backing file cannot be read or written at all.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPersistenceFailed is returned when a commit could not be made durable.
	// The in-memory view is left at its pre-commit value.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrCorruptDocument is returned by Load when the persisted document is not
	// a mapping of collection names to arrays of records with unique string ids.
	ErrCorruptDocument = errors.New("corrupt document")
)
