package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/source"
	"github.com/poiesic/ndexsearch/storage"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultQueueSize is the capacity of the dispatch queue.
	DefaultQueueSize = 1024

	// DefaultDispatcherIdle is how long the dispatcher sleeps when the queue is empty.
	DefaultDispatcherIdle = 10 * time.Millisecond

	// DefaultCatalogInterval is the pause between catalog refresh cycles.
	DefaultCatalogInterval = time.Minute
)

// Engine accepts gene list queries, fans them out to source adapters and
// aggregates the per-source results.
type Engine struct {
	configs  *core.SourceConfigurations
	adapters map[string]source.Adapter
	store    storage.TaskStore
	cache    storage.CatalogCache
	registry *registry

	queue           chan string
	queueSize       int
	dispatcherIdle  time.Duration
	catalogInterval time.Duration
	catalogPoolSize int
	catalogPool     *ants.Pool
	catalog         atomic.Pointer[core.Catalog]
	refreshGroup    singleflight.Group

	monitor Monitor
	now     func() time.Time
	logger  *slog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithQueueSize sets the dispatch queue capacity.
// Default is DefaultQueueSize.
func WithQueueSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = DefaultQueueSize
		}
		e.queueSize = size
		return nil
	}
}

// WithDispatcherIdle sets how long the dispatcher sleeps on an empty queue.
// Default is DefaultDispatcherIdle.
func WithDispatcherIdle(idle time.Duration) Option {
	return func(e *Engine) error {
		if idle <= 0 {
			idle = DefaultDispatcherIdle
		}
		e.dispatcherIdle = idle
		return nil
	}
}

// WithCatalogInterval sets the pause between catalog refresh cycles.
// Default is DefaultCatalogInterval.
func WithCatalogInterval(interval time.Duration) Option {
	return func(e *Engine) error {
		if interval <= 0 {
			interval = DefaultCatalogInterval
		}
		e.catalogInterval = interval
		return nil
	}
}

// WithCatalogPoolSize sets how many catalog updates run concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithCatalogPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.catalogPoolSize = size
		return nil
	}
}

// WithCatalogCache persists every published catalog snapshot and seeds the
// initial snapshot from the last saved one.
func WithCatalogCache(cache storage.CatalogCache) Option {
	return func(e *Engine) error {
		e.cache = cache
		return nil
	}
}

// WithMonitor sets hooks called at task lifecycle events.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// New creates an engine for the configured sources. Every adapter serves
// the source name it reports. Call Start to begin dispatching.
func New(store storage.TaskStore, configs *core.SourceConfigurations, adapters []source.Adapter, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if configs == nil {
		return nil, ErrConfigurationsRequired
	}

	byName := make(map[string]source.Adapter, len(adapters))
	for _, a := range adapters {
		if a == nil {
			return nil, ErrAdapterRequired
		}
		if _, dup := byName[a.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdapter, a.Name())
		}
		byName[a.Name()] = a
	}

	e := &Engine{
		configs:         configs,
		adapters:        byName,
		store:           store,
		queueSize:       DefaultQueueSize,
		dispatcherIdle:  DefaultDispatcherIdle,
		catalogInterval: DefaultCatalogInterval,
		catalogPoolSize: max(runtime.NumCPU(), 1),
		monitor:         &noopMonitor{},
		now:             time.Now,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(e.catalogPoolSize)
	if err != nil {
		return nil, err
	}
	e.catalogPool = pool
	e.queue = make(chan string, e.queueSize)
	e.logger = e.logger.With("component", "engine")
	e.registry = newRegistry(store, e.logger)
	e.catalog.Store(e.initialCatalog(context.Background()))

	for _, sc := range configs.Sources {
		if _, ok := byName[sc.Name]; !ok {
			e.logger.Warn("configured source has no adapter", "source", sc.Name)
		}
	}
	return e, nil
}

// Start launches the dispatcher and the catalog refresher. Calling Start more
// than once has no effect.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel

		e.wg.Add(2)
		go e.runDispatcher(ctx)
		go e.runCatalogRefresher(ctx)
		e.logger.Info("engine started", "sources", len(e.configs.Sources), "adapters", len(e.adapters))
	})
}

// Shutdown stops the background goroutines, waiting for the task being
// dispatched, then shuts down every adapter and closes the task store.
func (e *Engine) Shutdown() error {
	var err error
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		if e.cancel != nil {
			e.cancel()
		}
		e.wg.Wait()
		e.catalogPool.Release()

		var errs []error
		for name, a := range e.adapters {
			if shutdownErr := a.Shutdown(); shutdownErr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, shutdownErr))
			}
		}
		if closeErr := e.store.Close(); closeErr != nil {
			errs = append(errs, closeErr)
		}
		err = errors.Join(errs...)
		e.logger.Info("engine stopped")
	})
	return err
}

// Query validates and registers the query, queues it for dispatch and
// returns the new task id.
func (e *Engine) Query(ctx context.Context, query *core.Query) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}
	if err := core.ValidateQuery(query); err != nil {
		return "", err
	}

	taskID := uuid.NewString()
	q := query.Clone()
	e.registry.add(taskID, q, core.NewQueryResults(q, e.now().UnixMilli()))

	select {
	case e.queue <- taskID:
	case <-ctx.Done():
		e.registry.remove(taskID)
		return "", ctx.Err()
	}

	e.logger.Info("query submitted", "task", taskID, "genes", len(q.GeneList), "sources", q.SourceList)
	e.monitor.Submitted(taskID)
	return taskID, nil
}

// GetQueryResults returns the aggregated results of a task restricted to the
// comma separated sourceFilter and paginated over the flattened items.
func (e *Engine) GetQueryResults(ctx context.Context, taskID, sourceFilter string, start, size int) (*core.QueryResults, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start parameter must be value of 0 or greater", ErrInvalidArgument)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: size parameter must be value of 0 or greater", ErrInvalidArgument)
	}

	rec, err := e.aggregate(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return paginate(filterSources(rec, sourceFilter), start, size), nil
}

// GetQueryStatus returns the aggregated summary of a task without result items.
func (e *Engine) GetQueryStatus(ctx context.Context, taskID string) (*core.QueryResults, error) {
	rec, err := e.aggregate(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for i := range rec.Sources {
		rec.Sources[i].Results = nil
	}
	return rec, nil
}

// Delete asks every backend to discard its part of the task, then removes
// the in-memory and persisted state. Backend failures are returned as a
// *DeleteError after local state is removed.
func (e *Engine) Delete(ctx context.Context, taskID string) error {
	rec, err := e.registry.get(ctx, taskID)
	if err != nil {
		return err
	}

	var errs []error
	for _, sub := range rec.Sources {
		if sub.SourceTaskID == "" {
			continue
		}
		a, ok := e.adapters[sub.SourceName]
		if !ok {
			continue
		}
		if delErr := a.Delete(ctx, sub.SourceTaskID); delErr != nil {
			e.logger.Error("backend delete failed", "task", taskID, "source", sub.SourceName, "err", delErr)
			errs = append(errs, delErr)
		}
	}

	if storeErr := e.registry.delete(ctx, taskID); storeErr != nil {
		e.logger.Error("unable to delete persisted task", "task", taskID, "err", storeErr)
	}
	e.logger.Info("task deleted", "task", taskID)

	if len(errs) > 0 {
		return &DeleteError{TaskID: taskID, Errs: errs}
	}
	return nil
}

// GetNetworkOverlay streams one result network of the sub-result whose
// source UUID is sourceUUID.
func (e *Engine) GetNetworkOverlay(ctx context.Context, taskID, sourceUUID, networkID string) (io.ReadCloser, error) {
	if sourceUUID == "" {
		return nil, fmt.Errorf("%w: sourceUUID cannot be empty", ErrInvalidArgument)
	}
	if networkID == "" {
		return nil, fmt.Errorf("%w: networkUUID cannot be empty", ErrInvalidArgument)
	}

	rec, err := e.registry.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for _, sub := range rec.Sources {
		if sub.SourceUUID != sourceUUID {
			continue
		}
		a, ok := e.adapters[sub.SourceName]
		if !ok {
			return nil, fmt.Errorf("%w: no adapter for %s", ErrSourceNotFound, sub.SourceName)
		}
		return a.StreamOverlayNetwork(ctx, sub.SourceTaskID, networkID)
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceUUID)
}
