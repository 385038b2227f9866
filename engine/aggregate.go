package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/ndexsearch/core"
)

// aggregate returns a private copy of the task record, refreshing the
// non-terminal sub-results first. Concurrent callers for one task share a
// single refresh pass.
func (e *Engine) aggregate(ctx context.Context, taskID string) (*core.QueryResults, error) {
	rec, err := e.registry.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if e.settled(taskID, rec) {
		return rec.Clone(), nil
	}

	v, err, shared := e.refreshGroup.Do(taskID, func() (any, error) {
		return e.refresh(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.logger.Debug("shared refresh pass", "task", taskID)
	}
	return v.(*core.QueryResults).Clone(), nil
}

// settled reports whether rec must be returned without a refresh: it is
// terminal, not dispatched yet, or still being dispatched.
func (e *Engine) settled(taskID string, rec *core.QueryResults) bool {
	return rec.IsTerminal() || rec.Status == core.StatusSubmitted || e.registry.isDispatching(taskID)
}

// refresh polls every pending sub-result, recomputes the summary and stores
// the result, persisting and evicting the task once it is terminal.
func (e *Engine) refresh(ctx context.Context, taskID string) (*core.QueryResults, error) {
	_, wasLive := e.registry.record(taskID)
	cur, err := e.registry.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if e.settled(taskID, cur) {
		return cur, nil
	}

	work := cur.Clone()
	for i := range work.Sources {
		sub := &work.Sources[i]
		if sub.Done() {
			sub.Progress = core.CompleteProgress
			continue
		}
		a, ok := e.adapters[sub.SourceName]
		if !ok {
			sub.Fail(msgUnknownSource)
			continue
		}

		prev := sub.Progress
		a.Refresh(ctx, sub)
		if sub.Progress < prev {
			sub.Progress = prev
		}
		if core.IsTerminalStatus(sub.Status) {
			sub.Progress = core.CompleteProgress
		}
	}

	summarize(work)

	if work.IsTerminal() {
		switch _, live := e.registry.record(taskID); {
		case live:
			e.registry.persistAndEvict(ctx, taskID, work)
		case wasLive:
			e.logger.Info("task removed during refresh", "task", taskID)
			return work, nil
		default:
			e.registry.save(ctx, taskID, work)
		}
		e.logger.Info("task finished", "task", taskID, "status", work.Status, "hits", work.NumberOfHits)
		e.monitor.Finalized(taskID, work.Clone())
		return work, nil
	}
	e.registry.update(taskID, work)
	return work, nil
}

// summarize derives the task status, progress, hit count and wall time from
// the sub-results.
func summarize(rec *core.QueryResults) {
	if len(rec.Sources) == 0 {
		rec.NumberOfHits = 0
		rec.Fail(msgNoSources)
		return
	}

	done, hits := 0, 0
	var wallTime int64
	var failed []string
	for i := range rec.Sources {
		sub := &rec.Sources[i]
		if sub.Progress >= core.CompleteProgress {
			done++
		}
		if sub.Status == core.StatusFailed {
			failed = append(failed, sub.SourceName)
		} else {
			hits += sub.NumberOfHits
		}
		wallTime = max(wallTime, sub.WallTime)
	}
	rec.NumberOfHits = hits

	total := len(rec.Sources)
	progress := int(math.Round(float64(core.CompleteProgress*done) / float64(total)))
	if done < total {
		progress = min(progress, core.CompleteProgress-1)
		rec.Progress = max(rec.Progress, progress)
		rec.Status = core.StatusProcessing
		rec.Message = ""
		return
	}

	rec.Progress = core.CompleteProgress
	rec.WallTime = wallTime
	if len(failed) > 0 {
		rec.Status = core.StatusFailed
		rec.Message = fmt.Sprintf(msgSourcesFailed, strings.Join(failed, ", "))
		return
	}
	rec.Status = core.StatusComplete
	rec.Message = ""
}
