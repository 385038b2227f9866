package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/ndexsearch/core"
)

const (
	msgPrepareFailed = "Internal error unable to create directory on filesystem"
	msgNotConfigured = "Source %s is not configured in this server"
	msgNullResult    = "Result from source %s was null"
	msgUnknownSource = "Unknown source"
	msgNoSources     = "No sources in result"
	msgSourcesFailed = "[%s] source(s) failed"
)

// runDispatcher dispatches queued tasks one at a time until ctx is cancelled.
func (e *Engine) runDispatcher(ctx context.Context) {
	defer e.wg.Done()

	timer := time.NewTimer(e.dispatcherIdle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case taskID := <-e.queue:
			e.dispatch(taskID)
			continue
		default:
		}

		timer.Reset(e.dispatcherIdle)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// dispatch submits the task to each requested source in order. Backend calls
// run on a background context so shutdown does not abort them midway.
func (e *Engine) dispatch(taskID string) {
	ctx := context.Background()
	logger := e.logger.With("task", taskID)

	query, ok := e.registry.query(taskID)
	stored, found := e.registry.record(taskID)
	if !ok || !found {
		logger.Warn("queued task is gone, skipping")
		return
	}

	e.registry.markDispatching(taskID)
	defer e.registry.clearDispatching(taskID)

	rec := stored.Clone()
	rec.Status = core.StatusProcessing
	if !e.registry.update(taskID, rec.Clone()) {
		return
	}
	logger.Debug("dispatching task", "sources", query.SourceList)

	if err := e.store.Prepare(ctx, taskID); err != nil {
		logger.Error("unable to prepare task storage", "err", err)
		e.failDispatch(ctx, taskID, rec, msgPrepareFailed)
		return
	}

	for _, name := range query.SourceList {
		if e.configs.Find(name) == nil {
			logger.Error("requested source is not configured", "source", name)
			e.failDispatch(ctx, taskID, rec, fmt.Sprintf(msgNotConfigured, name))
			return
		}
	}

	for _, name := range query.SourceList {
		cfg := e.configs.Find(name)
		sub := e.submit(ctx, name, query)
		sub.SourceName = name
		sub.SourceUUID = cfg.UUID
		sub.SourceRank = core.SourceRank(name)
		if core.IsTerminalStatus(sub.Status) {
			sub.Progress = core.CompleteProgress
		}

		rec.Sources = append(rec.Sources, *sub)
		if !e.registry.update(taskID, rec.Clone()) {
			logger.Info("task removed during dispatch")
			return
		}
		logger.Debug("source submitted", "source", name, "status", sub.Status)
		e.monitor.SourceDispatched(taskID, sub.Clone())
	}

	e.registry.checkpoint(ctx, taskID)
	e.registry.clearDispatching(taskID)
	e.monitor.Dispatched(taskID)

	if allDone(rec.Sources) {
		if _, err := e.aggregate(ctx, taskID); err != nil {
			logger.Error("unable to finalize task", "err", err)
		}
	}
}

// submit calls the adapter for name, converting a missing adapter or a nil
// result into a failed sub-result.
func (e *Engine) submit(ctx context.Context, name string, query *core.Query) *core.SourceQueryResults {
	a, ok := e.adapters[name]
	if !ok {
		e.logger.Error("no adapter for source", "source", name)
		return failedSub(name, msgUnknownSource)
	}
	sub := a.Submit(ctx, query.Clone())
	if sub == nil {
		return failedSub(name, fmt.Sprintf(msgNullResult, name))
	}
	return sub
}

// failDispatch fails the whole task with no sub-results and persists it.
func (e *Engine) failDispatch(ctx context.Context, taskID string, rec *core.QueryResults, message string) {
	rec.Sources = nil
	rec.Fail(message)
	e.registry.clearDispatching(taskID)
	e.registry.persistAndEvict(ctx, taskID, rec)
	e.monitor.Finalized(taskID, rec.Clone())
}

func failedSub(name, message string) *core.SourceQueryResults {
	sub := &core.SourceQueryResults{SourceName: name, SourceRank: core.SourceRank(name)}
	sub.Fail(message)
	return sub
}

func allDone(subs []core.SourceQueryResults) bool {
	for i := range subs {
		if subs[i].Progress < core.CompleteProgress {
			return false
		}
	}
	return true
}
