package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/ndexsearch/core"
)

// notReadyMessage is reported by interactome services that are asked for
// results of a search that is still running.
const notReadyMessage = "This search has no result ready. Search status: processing"

// InteractomeAdapter submits asynchronous searches to one interactome service.
type InteractomeAdapter struct {
	name              string
	client            InteractomeClient
	statusAttempts    int
	statusRetryDelay  time.Duration
	overlayRetryDelay time.Duration
	logger            *slog.Logger
}

var _ Adapter = (*InteractomeAdapter)(nil)

// NewInteractomeAdapter creates an interactome adapter serving the given source name.
func NewInteractomeAdapter(name string, client InteractomeClient, opts ...Option) (*InteractomeAdapter, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &InteractomeAdapter{
		name:              name,
		client:            client,
		statusAttempts:    s.statusAttempts,
		statusRetryDelay:  s.statusRetryDelay,
		overlayRetryDelay: s.overlayRetryDelay,
		logger:            s.logger.With("component", "source", "source", name),
	}, nil
}

// Name returns the source name this adapter was created for.
func (a *InteractomeAdapter) Name() string {
	return a.name
}

// Submit starts the search and returns a submitted sub-result holding the handle.
func (a *InteractomeAdapter) Submit(ctx context.Context, query *core.Query) *core.SourceQueryResults {
	taskID, err := a.client.Search(ctx, slices.Clone(query.GeneList))
	if err != nil {
		a.logger.Error("interactome submit failed", "err", err)
		return failedSubResult(a.name, fmt.Sprintf("%s failed : %s", a.name, err))
	}
	if taskID == "" {
		a.logger.Error("interactome submit returned no task id")
		return failedSubResult(a.name, a.name+" failed for unknown reason")
	}

	sqr := newSubResult(a.name)
	sqr.Status = core.StatusSubmitted
	sqr.SourceTaskID = taskID
	return sqr
}

// Refresh polls the search status and fetches results once progress reaches 100.
func (a *InteractomeAdapter) Refresh(ctx context.Context, result *core.SourceQueryResults) {
	if result.Done() {
		return
	}
	if result.SourceTaskID == "" {
		result.Fail(fmt.Sprintf("%s: %s", a.name, ErrHandleRequired))
		return
	}

	var status *InteractomeSearchStatus
	err := retry(ctx, a.logger, statusPolicy(a.statusAttempts, a.statusRetryDelay), func() error {
		var pollErr error
		status, pollErr = a.client.GetSearchStatus(ctx, result.SourceTaskID)
		return pollErr
	})
	if err != nil {
		a.logRefreshError("unable to get search status", result.SourceTaskID, err)
		return
	}
	if status == nil {
		a.logger.Warn("search status was empty", "task", result.SourceTaskID)
		return
	}

	items := []core.SourceQueryResult{}
	if status.Progress == core.CompleteProgress {
		hits, err := a.client.GetSearchResult(ctx, result.SourceTaskID)
		if err != nil {
			a.logRefreshError("unable to get search results", result.SourceTaskID, err)
			return
		}
		a.logger.Debug("search finished", "task", result.SourceTaskID, "hits", len(hits))
		for _, h := range hits {
			items = append(items, core.SourceQueryResult{
				NetworkUUID:    h.NetworkUUID,
				Description:    h.Description,
				Nodes:          h.NodeCount,
				Edges:          h.EdgeCount,
				PercentOverlap: h.PercentOverlap,
				Rank:           h.Rank,
				HitGenes:       slices.Clone(h.HitGenes),
				ImageURL:       h.ImageURL,
				Details:        h.Details,
			})
		}
	}

	result.Message = status.Message
	result.Progress = status.Progress
	result.Status = status.Status
	result.WallTime = status.WallTime
	result.Results = items
	result.NumberOfHits = len(items)
}

// logRefreshError logs a refresh failure, downgrading the still-processing
// condition to a warning.
func (a *InteractomeAdapter) logRefreshError(msg, taskID string, err error) {
	if isNotReady(err) {
		a.logger.Warn(msg, "task", taskID, "err", err)
		return
	}
	a.logger.Error(msg, "task", taskID, "err", err)
}

// UpdateCatalog counts the reference networks of the service.
func (a *InteractomeAdapter) UpdateCatalog(ctx context.Context, entry *core.SourceResult) {
	entries, err := a.client.GetDatabase(ctx)
	if err != nil {
		a.logger.Error("unable to query reference networks", "err", err)
		entry.Status = core.CatalogStatusError
		return
	}
	entry.Version = "1.0"
	if entries == nil {
		a.logger.Error("no reference networks returned")
		entry.NumberOfNetworks = 0
		entry.Status = core.CatalogStatusError
		return
	}
	entry.NumberOfNetworks = len(entries)
	entry.Status = core.CatalogStatusOK
}

// Delete is a no-op; interactome services expose no delete.
func (a *InteractomeAdapter) Delete(ctx context.Context, handle string) error {
	return nil
}

// StreamOverlayNetwork streams the overlaid network, retrying once after a pause.
func (a *InteractomeAdapter) StreamOverlayNetwork(ctx context.Context, handle, networkID string) (io.ReadCloser, error) {
	rc, err := a.client.GetOverlaidNetwork(ctx, handle, networkID)
	if err == nil {
		return rc, nil
	}
	a.logger.Error("unable to get overlaid network, retrying", "task", handle, "network", networkID, "err", err)

	timer := time.NewTimer(a.overlayRetryDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return nil, ctx.Err()
	case <-timer.C:
	}

	rc, err = a.client.GetOverlaidNetwork(ctx, handle, networkID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOverlayUnavailable, networkID, err)
	}
	return rc, nil
}

// Shutdown is a no-op; the HTTP client holds no dedicated resources.
func (a *InteractomeAdapter) Shutdown() error {
	return nil
}
