package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/storage"
)

// ResultsFileName is the name of the record file inside each task directory.
const ResultsFileName = "queryresults.json"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// TaskStore keeps one directory per task under a root directory.
type TaskStore struct {
	root   string
	logger *slog.Logger
}

var _ storage.TaskStore = (*TaskStore)(nil)

// Option configures a TaskStore.
type Option func(*TaskStore) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewTaskStore creates a TaskStore rooted at root, creating it if needed.
func NewTaskStore(root string, opts ...Option) (storage.TaskStore, error) {
	if root == "" {
		return nil, ErrRootRequired
	}
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(root, dirPerm); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	s := &TaskStore{
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "task-store", "root", root)
	return s, nil
}

// TaskDir returns the directory holding files for taskID.
func (s *TaskStore) TaskDir(taskID string) string {
	return filepath.Join(s.root, taskID)
}

// Prepare creates the task directory.
func (s *TaskStore) Prepare(ctx context.Context, taskID string) error {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return err
	}
	return os.MkdirAll(s.TaskDir(taskID), dirPerm)
}

// Save writes queryresults.json for the task. The file is replaced atomically
// so concurrent readers see either the old or the new record.
func (s *TaskStore) Save(ctx context.Context, taskID string, record *core.QueryResults) error {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return err
	}
	data, err := storage.MarshalQueryResults(record)
	if err != nil {
		return err
	}

	dir := s.TaskDir(taskID)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ResultsFileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, ResultsFileName)); err != nil {
		os.Remove(tmpName)
		return err
	}
	s.logger.Debug("saved task record", "task", taskID, "status", record.Status)
	return nil
}

// Load reads queryresults.json for the task.
func (s *TaskStore) Load(ctx context.Context, taskID string) (*core.QueryResults, error) {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	}
	data, err := os.ReadFile(filepath.Join(s.TaskDir(taskID), ResultsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return storage.UnmarshalQueryResults(data)
}

// Delete removes the task directory.
func (s *TaskStore) Delete(ctx context.Context, taskID string) error {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return err
	}
	return os.RemoveAll(s.TaskDir(taskID))
}

// Close is a no-op; the filesystem store holds no open handles.
func (s *TaskStore) Close() error {
	return nil
}
