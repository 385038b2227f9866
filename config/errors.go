package config

import "errors"

var (
	// ErrReadFailed indicates a configuration file that could not be read or parsed.
	ErrReadFailed = errors.New("config: unable to read configuration")

	// ErrDatabaseDirRequired indicates an empty database directory.
	ErrDatabaseDirRequired = errors.New("config: database directory is required")

	// ErrSourceConfigurationsRequired indicates an empty source configurations path.
	ErrSourceConfigurationsRequired = errors.New("config: source configurations file is required")

	// ErrInvalidStore indicates an unknown task store backend.
	ErrInvalidStore = errors.New("config: store must be filesystem or badger")

	// ErrInvalidDuration indicates a non-positive interval or timeout.
	ErrInvalidDuration = errors.New("config: duration must be positive")

	// ErrInvalidQueueSize indicates a dispatch queue smaller than one.
	ErrInvalidQueueSize = errors.New("config: queue size must be at least 1")
)
