package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/storage"
)

// registry keeps the in-memory state of live tasks.
// Stored records are never mutated; writers replace them with fresh copies.
type registry struct {
	records     sync.Map // task id -> *core.QueryResults
	queries     sync.Map // task id -> *core.Query
	dispatching sync.Map // task id -> struct{}
	store       storage.TaskStore
	logger      *slog.Logger

	// writeMu orders store writes against deletes. deleted holds the
	// tombstones of recently deleted ids, which are never written again.
	writeMu sync.Mutex
	deleted map[string]time.Time
}

// tombstoneTTL bounds how long a deleted id is refused by the store writers.
const tombstoneTTL = time.Hour

func newRegistry(store storage.TaskStore, logger *slog.Logger) *registry {
	return &registry{
		store:   store,
		logger:  logger.With("component", "registry"),
		deleted: make(map[string]time.Time),
	}
}

func (r *registry) add(taskID string, query *core.Query, record *core.QueryResults) {
	r.queries.Store(taskID, query)
	r.records.Store(taskID, record)
}

func (r *registry) query(taskID string) (*core.Query, bool) {
	v, ok := r.queries.Load(taskID)
	if !ok {
		return nil, false
	}
	return v.(*core.Query), true
}

// record returns the in-memory record. Callers must not modify it.
func (r *registry) record(taskID string) (*core.QueryResults, bool) {
	v, ok := r.records.Load(taskID)
	if !ok {
		return nil, false
	}
	return v.(*core.QueryResults), true
}

// get returns the in-memory record or, for evicted tasks, the persisted copy.
// Callers must not modify the returned record.
func (r *registry) get(ctx context.Context, taskID string) (*core.QueryResults, error) {
	if rec, ok := r.record(taskID); ok {
		return rec, nil
	}

	rec, err := r.store.Load(ctx, taskID)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidTaskID):
		return nil, ErrTaskNotFound
	case errors.Is(err, storage.ErrSerializationFailed):
		r.logger.Warn("persisted task is corrupt", "task", taskID, "err", err)
		return nil, ErrTaskNotFound
	default:
		r.logger.Error("unable to load task", "task", taskID, "err", err)
		return nil, ErrTaskNotFound
	}
}

// update replaces the in-memory record for taskID with record, keeping the
// original start time and never lowering progress. record is owned by the
// registry afterwards. Returns false if the task is no longer in memory.
func (r *registry) update(taskID string, record *core.QueryResults) bool {
	for {
		v, ok := r.records.Load(taskID)
		if !ok {
			return false
		}
		old := v.(*core.QueryResults)
		if old.StartTime != 0 {
			record.StartTime = old.StartTime
		}
		if record.Progress < old.Progress {
			record.Progress = old.Progress
		}
		if r.records.CompareAndSwap(taskID, old, record) {
			return true
		}
	}
}

// checkpoint writes the in-memory record to the store without evicting it.
func (r *registry) checkpoint(ctx context.Context, taskID string) {
	rec, ok := r.record(taskID)
	if !ok {
		return
	}
	if err := r.write(ctx, taskID, rec); err != nil {
		r.logger.Error("unable to checkpoint task", "task", taskID, "err", err)
	}
}

// save writes record for a task that only exists in the store.
func (r *registry) save(ctx context.Context, taskID string, record *core.QueryResults) {
	if err := r.write(ctx, taskID, record); err != nil {
		r.logger.Error("unable to persist task", "task", taskID, "err", err)
	}
}

// persistAndEvict writes record to the store and drops the in-memory state.
// If the write fails the record stays in memory, and since reads of a
// terminal record never refresh it, nothing retries the write.
func (r *registry) persistAndEvict(ctx context.Context, taskID string, record *core.QueryResults) {
	if !r.update(taskID, record) {
		return
	}
	if err := r.write(ctx, taskID, record); err != nil {
		r.logger.Error("unable to persist task, keeping it in memory", "task", taskID, "err", err)
		return
	}
	r.records.Delete(taskID)
	r.queries.Delete(taskID)
	r.logger.Debug("task persisted and evicted", "task", taskID, "status", record.Status)
}

// write saves record unless taskID has been deleted.
func (r *registry) write(ctx context.Context, taskID string, record *core.QueryResults) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if _, gone := r.deleted[taskID]; gone {
		r.logger.Debug("dropping write for deleted task", "task", taskID)
		return nil
	}
	return r.store.Save(ctx, taskID, record)
}

// delete drops the in-memory state and the stored copy of taskID and
// refuses later writes for it.
func (r *registry) delete(ctx context.Context, taskID string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	now := time.Now()
	for id, at := range r.deleted {
		if now.Sub(at) > tombstoneTTL {
			delete(r.deleted, id)
		}
	}
	r.deleted[taskID] = now
	r.remove(taskID)
	return r.store.Delete(ctx, taskID)
}

// remove drops all in-memory state for taskID.
func (r *registry) remove(taskID string) {
	r.records.Delete(taskID)
	r.queries.Delete(taskID)
	r.dispatching.Delete(taskID)
}

func (r *registry) markDispatching(taskID string) {
	r.dispatching.Store(taskID, struct{}{})
}

func (r *registry) clearDispatching(taskID string) {
	r.dispatching.Delete(taskID)
}

func (r *registry) isDispatching(taskID string) bool {
	_, ok := r.dispatching.Load(taskID)
	return ok
}
