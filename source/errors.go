package source

import "errors"

var (
	// ErrClientRequired is returned when an adapter is created without a backend client.
	ErrClientRequired = errors.New("backend client required")

	// ErrNameRequired is returned when an interactome adapter is created without a source name.
	ErrNameRequired = errors.New("source name required")

	// ErrInvalidMaxAttempts is returned when a retry count is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrOverlayUnavailable is returned when a backend cannot stream a result network.
	ErrOverlayUnavailable = errors.New("unable to get network")

	// ErrHandleRequired is returned when a remote operation is asked for without a task handle.
	ErrHandleRequired = errors.New("source task handle required")
)
