package engine

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/source"
	"github.com/poiesic/ndexsearch/source/mock"
	"github.com/poiesic/ndexsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_InitialSnapshot(t *testing.T) {
	e := newTestEngine(t, nil, testConfigs(core.SourceEnrichment, core.SourceKeyword))

	snap := e.GetSourceResults()
	require.NotNil(t, snap)
	require.Len(t, snap.Results, 2)
	assert.Equal(t, core.SourceEnrichment, snap.Results[0].Name)
	assert.Equal(t, "enrichment-uuid", snap.Results[0].UUID)
	assert.Equal(t, "http://localhost/enrichment", snap.Results[0].Endpoint)
	assert.NotEmpty(t, snap.Fingerprint)
}

func TestCatalog_RefreshIsolatesFailures(t *testing.T) {
	keyword := mock.NewMockAdapter(core.SourceKeyword)
	keyword.UpdateCatalogFunc = func(ctx context.Context, entry *core.SourceResult) {
		entry.Status = core.CatalogStatusOK
		entry.Version = "2.5.0"
		entry.NumberOfNetworks = 10
	}
	enrichment := mock.NewMockAdapter(core.SourceEnrichment)
	enrichment.UpdateCatalogFunc = func(ctx context.Context, entry *core.SourceResult) {
		panic("backend exploded")
	}

	e := newTestEngine(t, nil,
		testConfigs(core.SourceEnrichment, core.SourceKeyword, core.SourceInteractomePPI),
		keyword, enrichment)

	snap := e.RefreshCatalog(context.Background())
	require.Len(t, snap.Results, 3)

	byName := map[string]core.SourceResult{}
	for _, r := range snap.Results {
		byName[r.Name] = r
	}
	assert.Equal(t, core.CatalogStatusError, byName[core.SourceEnrichment].Status)
	assert.Equal(t, core.CatalogStatusOK, byName[core.SourceKeyword].Status)
	assert.Equal(t, 10, byName[core.SourceKeyword].NumberOfNetworks)
	assert.Equal(t, core.CatalogStatusError, byName[core.SourceInteractomePPI].Status, "sources without adapter")

	published := e.GetSourceResults()
	assert.Equal(t, snap.Fingerprint, published.Fingerprint)
	published.Results[0].Status = "mutated"
	assert.NotEqual(t, "mutated", e.GetSourceResults().Results[0].Status, "callers get copies")
}

func TestCatalog_SeedsFromPreviousSnapshot(t *testing.T) {
	calls := 0
	keyword := mock.NewMockAdapter(core.SourceKeyword)
	keyword.UpdateCatalogFunc = func(ctx context.Context, entry *core.SourceResult) {
		calls++
		if calls == 1 {
			entry.Status = core.CatalogStatusOK
			entry.Version = "2.5.0"
			entry.NumberOfNetworks = 10
			return
		}
		entry.Status = core.CatalogStatusError
	}
	e := newTestEngine(t, nil, testConfigs(core.SourceKeyword), keyword)

	first := e.RefreshCatalog(context.Background())
	second := e.RefreshCatalog(context.Background())

	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, core.CatalogStatusError, second.Results[0].Status)
	assert.Equal(t, "2.5.0", second.Results[0].Version, "last known values survive a failed update")
	assert.Equal(t, 10, second.Results[0].NumberOfNetworks)
}

func TestCatalog_Cache(t *testing.T) {
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	cache := badger.NewCatalogRepository(backend)

	keyword := mock.NewMockAdapter(core.SourceKeyword)
	keyword.UpdateCatalogFunc = func(ctx context.Context, entry *core.SourceResult) {
		entry.Status = core.CatalogStatusOK
		entry.Version = "2.5.0"
	}

	first, err := New(store, testConfigs(core.SourceKeyword), []source.Adapter{keyword},
		WithCatalogCache(cache), WithCatalogInterval(time.Hour))
	require.NoError(t, err)
	defer first.catalogPool.Release()
	first.RefreshCatalog(context.Background())

	saved, err := cache.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "2.5.0", saved.Results[0].Version)

	second, err := New(store, testConfigs(core.SourceKeyword), []source.Adapter{keyword}, WithCatalogCache(cache))
	require.NoError(t, err)
	defer second.catalogPool.Release()
	seeded := second.GetSourceResults()
	assert.Equal(t, core.CatalogStatusOK, seeded.Results[0].Status)
	assert.Equal(t, "2.5.0", seeded.Results[0].Version)
}

func TestCatalog_RefresherRunsOnStart(t *testing.T) {
	keyword := mock.NewMockAdapter(core.SourceKeyword)
	e := newTestEngine(t, nil, testConfigs(core.SourceKeyword), keyword)
	e.Start()

	require.Eventually(t, func() bool {
		return e.GetSourceResults().Results[0].Status == core.CatalogStatusOK
	}, waitTimeout, 5*time.Millisecond)
	assert.GreaterOrEqual(t, keyword.CatalogCalls(), 1)
}
