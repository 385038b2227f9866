package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/ndexsearch/core"
)

var (
	// ErrInvalidQuery is returned by Query for a nil query or an empty source list.
	ErrInvalidQuery = core.ErrInvalidQuery

	// ErrInvalidArgument is returned for out-of-range pagination values and empty ids.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTaskNotFound is returned for task ids that are neither in memory nor persisted.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSourceNotFound is returned when a task has no sub-result for the requested source.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDeleteFailed is matched by errors returned from Delete when a backend delete fails.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrStoreRequired is returned when an engine is created without a task store.
	ErrStoreRequired = errors.New("task store is required")

	// ErrConfigurationsRequired is returned when an engine is created without source configurations.
	ErrConfigurationsRequired = errors.New("source configurations are required")

	// ErrAdapterRequired is returned when a nil adapter is passed to New.
	ErrAdapterRequired = errors.New("adapter is required")

	// ErrDuplicateAdapter is returned when two adapters serve the same source name.
	ErrDuplicateAdapter = errors.New("duplicate adapter")

	// ErrEngineClosed is returned by Query after Shutdown.
	ErrEngineClosed = errors.New("engine is shut down")
)

// DeleteError collects the backend delete failures of one task.
type DeleteError struct {
	TaskID string
	Errs   []error
}

func (e *DeleteError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors raised while attempting to delete task %s", len(e.Errs), e.TaskID)
	for i, err := range e.Errs {
		fmt.Fprintf(&sb, ": (%d) %s", i+1, err)
	}
	return sb.String()
}

// Is reports ErrDeleteFailed as a match.
func (e *DeleteError) Is(target error) bool {
	return target == ErrDeleteFailed
}

func (e *DeleteError) Unwrap() []error {
	return e.Errs
}
