package storage

import "errors"

// Errors returned by every TaskStore and CatalogCache implementation.
var (
	ErrNotFound            = errors.New("storage: task not found")
	ErrStorageClosed       = errors.New("storage: store closed")
	ErrInvalidTaskID       = errors.New("storage: task id is not a usable key")
	ErrSerializationFailed = errors.New("storage: record encoding failed")
)
