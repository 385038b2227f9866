package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/source"
	"github.com/poiesic/ndexsearch/storage"
)

// GetSourceResults returns a copy of the current catalog snapshot.
func (e *Engine) GetSourceResults() *core.Catalog {
	return e.catalog.Load().Clone()
}

// RefreshCatalog runs one catalog cycle, publishes the new snapshot and
// returns a copy of it.
func (e *Engine) RefreshCatalog(ctx context.Context) *core.Catalog {
	entries := e.catalogEntries(e.catalog.Load())

	var wg sync.WaitGroup
	for i := range entries {
		entry := &entries[i]
		a, ok := e.adapters[entry.Name]
		if !ok {
			entry.Status = core.CatalogStatusError
			continue
		}

		wg.Add(1)
		err := e.catalogPool.Submit(func() {
			defer wg.Done()
			e.updateEntry(ctx, a, entry)
		})
		if err != nil {
			wg.Done()
			e.logger.Error("unable to schedule catalog update", "source", entry.Name, "err", err)
			entry.Status = core.CatalogStatusError
		}
	}
	wg.Wait()

	snap := e.newSnapshot(entries)
	prev := e.catalog.Swap(snap)
	if prev == nil || prev.Fingerprint != snap.Fingerprint {
		e.logger.Info("source catalog changed", "sources", len(entries), "fingerprint", snap.Fingerprint)
	} else {
		e.logger.Debug("source catalog unchanged", "fingerprint", snap.Fingerprint)
	}

	if e.cache != nil {
		if err := e.cache.SaveCatalog(ctx, snap); err != nil {
			e.logger.Warn("unable to cache source catalog", "err", err)
		}
	}
	e.monitor.CatalogUpdated(snap.Clone())
	return snap.Clone()
}

// updateEntry runs one adapter catalog update, marking the entry failed if
// the adapter panics.
func (e *Engine) updateEntry(ctx context.Context, a source.Adapter, entry *core.SourceResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("catalog update panicked", "source", entry.Name, "panic", fmt.Sprint(r))
			entry.Status = core.CatalogStatusError
		}
	}()
	a.UpdateCatalog(ctx, entry)
}

func (e *Engine) runCatalogRefresher(ctx context.Context) {
	defer e.wg.Done()

	e.RefreshCatalog(ctx)

	ticker := time.NewTicker(e.catalogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RefreshCatalog(ctx)
		}
	}
}

// initialCatalog builds the first snapshot from the configurations, seeded
// from the catalog cache when one is configured.
func (e *Engine) initialCatalog(ctx context.Context) *core.Catalog {
	var seed *core.Catalog
	if e.cache != nil {
		cached, err := e.cache.LoadCatalog(ctx)
		if err != nil {
			e.logger.Warn("unable to load cached source catalog", "err", err)
		}
		seed = cached
	}
	return e.newSnapshot(e.catalogEntries(seed))
}

// catalogEntries creates one entry per configured source, carrying over the
// last known metadata from prev.
func (e *Engine) catalogEntries(prev *core.Catalog) []core.SourceResult {
	entries := make([]core.SourceResult, 0, len(e.configs.Sources))
	for _, sc := range e.configs.Sources {
		entry := core.SourceResult{
			Name:        sc.Name,
			UUID:        sc.UUID,
			Description: sc.Description,
			Endpoint:    sc.Endpoint,
		}
		if last := prev.Find(sc.Name); last != nil {
			entry.Status = last.Status
			entry.Version = last.Version
			entry.NumberOfNetworks = last.NumberOfNetworks
			entry.Databases = last.Clone().Databases
		}
		entries = append(entries, entry)
	}
	return entries
}

func (e *Engine) newSnapshot(entries []core.SourceResult) *core.Catalog {
	snap := &core.Catalog{Results: entries, UpdatedAt: e.now().UnixMilli()}
	data, err := storage.MarshalCatalog(&core.Catalog{Results: entries})
	if err != nil {
		e.logger.Warn("unable to fingerprint source catalog", "err", err)
		return snap
	}
	snap.Fingerprint = core.Fingerprint(data)
	return snap
}
