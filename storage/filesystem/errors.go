package filesystem

import "errors"

var (
	// ErrRootRequired is returned when no task root directory is provided.
	ErrRootRequired = errors.New("task root directory required")

	// ErrRootNotDirectory is returned when the task root exists but is not a directory.
	ErrRootNotDirectory = errors.New("task root is not a directory")
)
