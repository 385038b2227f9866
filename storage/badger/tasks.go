package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/storage"
)

// TaskRepository implements storage.TaskStore for BadgerDB.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskStore = (*TaskRepository)(nil)

// NewTaskStore creates a BadgerDB backed task store.
func NewTaskStore(backend *Backend) (storage.TaskStore, error) {
	return newTaskRepository(backend)
}

func newTaskRepository(backend *Backend) (*TaskRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &TaskRepository{backend: backend}, nil
}

// Prepare is a no-op; records need no per-task namespace.
func (r *TaskRepository) Prepare(ctx context.Context, taskID string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return storage.ValidateTaskID(taskID)
}

// Save persists the record under the task key.
func (r *TaskRepository) Save(ctx context.Context, taskID string, record *core.QueryResults) error {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	value, err := storage.MarshalQueryResults(record)
	if err != nil {
		return err
	}
	return r.backend.update(func(tx *badger.Txn) error {
		return tx.Set(makeTaskRecordKey(taskID), value)
	})
}

// Load retrieves the record for taskID.
func (r *TaskRepository) Load(ctx context.Context, taskID string) (*core.QueryResults, error) {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return nil, storage.ErrNotFound
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var record *core.QueryResults
	err := r.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTaskRecordKey(taskID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalQueryResults(val)
			return unmarshalErr
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the record for taskID.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	if err := storage.ValidateTaskID(taskID); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.update(func(tx *badger.Txn) error {
		return tx.Delete(makeTaskRecordKey(taskID))
	})
}

// Count returns the number of stored task records.
func (r *TaskRepository) Count() (int, error) {
	return r.backend.countPrefix(taskRecordKeyPrefix())
}

// Close is a no-op; the backend is closed by its owner.
func (r *TaskRepository) Close() error {
	return nil
}
