package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/poiesic/ndexsearch/core"
)

// EnrichmentAdapter submits asynchronous searches to the enrichment service.
type EnrichmentAdapter struct {
	client EnrichmentClient
	// databases holds the database names learned from the last catalog update.
	databases atomic.Pointer[[]string]
	logger    *slog.Logger
}

var _ Adapter = (*EnrichmentAdapter)(nil)

// NewEnrichmentAdapter creates the enrichment adapter.
func NewEnrichmentAdapter(client EnrichmentClient, opts ...Option) (*EnrichmentAdapter, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	a := &EnrichmentAdapter{
		client: client,
		logger: s.logger.With("component", "source", "source", core.SourceEnrichment),
	}
	a.databases.Store(&[]string{})
	return a, nil
}

// Name returns the enrichment source name.
func (a *EnrichmentAdapter) Name() string {
	return core.SourceEnrichment
}

// Databases returns the database names sent with every query.
func (a *EnrichmentAdapter) Databases() []string {
	return slices.Clone(*a.databases.Load())
}

// Submit sends the sorted gene set and known databases to the service.
func (a *EnrichmentAdapter) Submit(ctx context.Context, query *core.Query) *core.SourceQueryResults {
	genes := slices.Clone(nonEmpty(query.GeneList))
	slices.Sort(genes)
	genes = slices.Compact(genes)

	eq := &EnrichmentQuery{
		GeneList:     genes,
		DatabaseList: a.Databases(),
	}

	taskID, err := a.client.Query(ctx, eq)
	if err != nil {
		a.logger.Error("enrichment submit failed", "err", err)
		return failedSubResult(core.SourceEnrichment, "Enrichment failed: "+err.Error())
	}
	if taskID == "" {
		a.logger.Error("enrichment submit returned no task id")
		return failedSubResult(core.SourceEnrichment, "Enrichment failed for unknown reason")
	}

	sqr := newSubResult(core.SourceEnrichment)
	sqr.Status = core.StatusSubmitted
	sqr.SourceTaskID = taskID
	return sqr
}

// Refresh polls the enrichment task and copies its status and results.
// Transport errors are logged and leave result untouched so the next read retries.
func (a *EnrichmentAdapter) Refresh(ctx context.Context, result *core.SourceQueryResults) {
	if result.Done() {
		return
	}
	if result.SourceTaskID == "" {
		result.Fail(fmt.Sprintf("%s: %s", core.SourceEnrichment, ErrHandleRequired))
		return
	}

	qr, err := a.client.GetQueryResults(ctx, result.SourceTaskID, 0, 0)
	if err != nil {
		a.logger.Error("unable to get enrichment results", "task", result.SourceTaskID, "err", err)
		return
	}
	if qr == nil {
		a.logger.Warn("enrichment returned no results", "task", result.SourceTaskID)
		return
	}

	items := make([]core.SourceQueryResult, 0, len(qr.Results))
	for _, r := range qr.Results {
		items = append(items, core.SourceQueryResult{
			NetworkUUID:    r.NetworkUUID,
			Description:    r.DatabaseName + ": " + r.Description,
			Nodes:          r.Nodes,
			Edges:          r.Edges,
			PercentOverlap: r.PercentOverlap,
			Rank:           r.Rank,
			HitGenes:       slices.Clone(r.HitGenes),
			ImageURL:       r.ImageURL,
			URL:            r.URL,
			TotalGeneCount: r.TotalGeneCount,
			Details: map[string]any{
				"PValue":            r.PValue,
				"similarity":        r.Similarity,
				"totalNetworkCount": r.TotalNetworkCount,
			},
		})
	}

	result.Message = qr.Message
	result.Progress = qr.Progress
	result.Status = qr.Status
	result.WallTime = qr.WallTime
	result.Results = items
	result.NumberOfHits = len(items)
}

// UpdateCatalog lists the service databases and sums their network counts.
func (a *EnrichmentAdapter) UpdateCatalog(ctx context.Context, entry *core.SourceResult) {
	dbs, err := a.client.GetDatabaseResults(ctx)
	if err != nil || dbs == nil {
		a.logger.Error("unable to query enrichment databases", "err", err)
		entry.Status = core.CatalogStatusError
		return
	}

	entry.Databases = slices.Clone(dbs.Results)
	entry.Version = "0.1.0"

	total := 0
	names := make([]string, 0, len(dbs.Results))
	for _, db := range dbs.Results {
		names = append(names, db.Name)
		n, err := strconv.Atoi(db.NumberOfNetworks)
		if err != nil {
			a.logger.Warn("skipping unparsable network count", "database", db.Name, "value", db.NumberOfNetworks)
			continue
		}
		total += n
	}
	entry.NumberOfNetworks = total
	entry.Status = core.CatalogStatusOK

	a.databases.Store(&names)
}

// Delete removes the remote enrichment task.
func (a *EnrichmentAdapter) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	if err := a.client.Delete(ctx, handle); err != nil {
		return fmt.Errorf("caught error trying to delete enrichment: %w", err)
	}
	return nil
}

// StreamOverlayNetwork streams the network overlaid with the query genes.
func (a *EnrichmentAdapter) StreamOverlayNetwork(ctx context.Context, handle, networkID string) (io.ReadCloser, error) {
	rc, err := a.client.GetNetworkOverlay(ctx, handle, "", networkID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOverlayUnavailable, networkID, err)
	}
	return rc, nil
}

// Shutdown closes the enrichment client.
func (a *EnrichmentAdapter) Shutdown() error {
	return a.client.Close()
}
