package mock

import (
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/source"
)

// MockAdapter is a test double for source.Adapter.
// Without function fields it behaves like a backend that completes
// every search immediately with no hits.
type MockAdapter struct {
	SourceName               string
	SubmitFunc               func(ctx context.Context, query *core.Query) *core.SourceQueryResults
	RefreshFunc              func(ctx context.Context, result *core.SourceQueryResults)
	UpdateCatalogFunc        func(ctx context.Context, entry *core.SourceResult)
	DeleteFunc               func(ctx context.Context, handle string) error
	StreamOverlayNetworkFunc func(ctx context.Context, handle, networkID string) (io.ReadCloser, error)
	ShutdownFunc             func() error

	submitCalls   atomic.Int32
	refreshCalls  atomic.Int32
	catalogCalls  atomic.Int32
	deleteCalls   atomic.Int32
	shutdownCalls atomic.Int32
}

var _ source.Adapter = (*MockAdapter)(nil)

// NewMockAdapter creates a mock adapter for the named source.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{SourceName: name}
}

// Name returns SourceName.
func (m *MockAdapter) Name() string {
	return m.SourceName
}

// Submit delegates to SubmitFunc or returns a complete, empty sub-result.
func (m *MockAdapter) Submit(ctx context.Context, query *core.Query) *core.SourceQueryResults {
	m.submitCalls.Add(1)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, query)
	}
	return &core.SourceQueryResults{
		SourceName:   m.SourceName,
		SourceRank:   core.SourceRank(m.SourceName),
		SourceTaskID: m.SourceName + "-task",
		Status:       core.StatusComplete,
		Progress:     core.CompleteProgress,
	}
}

// Refresh delegates to RefreshFunc.
func (m *MockAdapter) Refresh(ctx context.Context, result *core.SourceQueryResults) {
	m.refreshCalls.Add(1)
	if m.RefreshFunc != nil {
		m.RefreshFunc(ctx, result)
	}
}

// UpdateCatalog delegates to UpdateCatalogFunc or marks the entry ok.
func (m *MockAdapter) UpdateCatalog(ctx context.Context, entry *core.SourceResult) {
	m.catalogCalls.Add(1)
	if m.UpdateCatalogFunc != nil {
		m.UpdateCatalogFunc(ctx, entry)
		return
	}
	entry.Status = core.CatalogStatusOK
}

// Delete delegates to DeleteFunc.
func (m *MockAdapter) Delete(ctx context.Context, handle string) error {
	m.deleteCalls.Add(1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, handle)
	}
	return nil
}

// StreamOverlayNetwork delegates to StreamOverlayNetworkFunc or streams the handle and network id.
func (m *MockAdapter) StreamOverlayNetwork(ctx context.Context, handle, networkID string) (io.ReadCloser, error) {
	if m.StreamOverlayNetworkFunc != nil {
		return m.StreamOverlayNetworkFunc(ctx, handle, networkID)
	}
	return io.NopCloser(strings.NewReader(handle + ":" + networkID)), nil
}

// Shutdown delegates to ShutdownFunc.
func (m *MockAdapter) Shutdown() error {
	m.shutdownCalls.Add(1)
	if m.ShutdownFunc != nil {
		return m.ShutdownFunc()
	}
	return nil
}

// SubmitCalls returns the number of Submit calls.
func (m *MockAdapter) SubmitCalls() int { return int(m.submitCalls.Load()) }

// RefreshCalls returns the number of Refresh calls.
func (m *MockAdapter) RefreshCalls() int { return int(m.refreshCalls.Load()) }

// CatalogCalls returns the number of UpdateCatalog calls.
func (m *MockAdapter) CatalogCalls() int { return int(m.catalogCalls.Load()) }

// DeleteCalls returns the number of Delete calls.
func (m *MockAdapter) DeleteCalls() int { return int(m.deleteCalls.Load()) }

// ShutdownCalls returns the number of Shutdown calls.
func (m *MockAdapter) ShutdownCalls() int { return int(m.shutdownCalls.Load()) }
