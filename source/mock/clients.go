package mock

import (
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/poiesic/ndexsearch/source"
)

// MockEnrichmentClient is a test double for source.EnrichmentClient.
// It allows custom behavior injection via function fields.
type MockEnrichmentClient struct {
	QueryFunc              func(ctx context.Context, query *source.EnrichmentQuery) (string, error)
	GetDatabaseResultsFunc func(ctx context.Context) (*source.DatabaseResults, error)
	GetQueryResultsFunc    func(ctx context.Context, id string, start, size int) (*source.EnrichmentQueryResults, error)
	DeleteFunc             func(ctx context.Context, id string) error
	GetNetworkOverlayFunc  func(ctx context.Context, id, databaseUUID, networkUUID string) (io.ReadCloser, error)
	CloseFunc              func() error

	callCount atomic.Int32
}

var _ source.EnrichmentClient = (*MockEnrichmentClient)(nil)

// Query returns "enrichment-task" unless QueryFunc is set.
func (m *MockEnrichmentClient) Query(ctx context.Context, query *source.EnrichmentQuery) (string, error) {
	m.callCount.Add(1)
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query)
	}
	return "enrichment-task", nil
}

// GetDatabaseResults returns an empty listing unless GetDatabaseResultsFunc is set.
func (m *MockEnrichmentClient) GetDatabaseResults(ctx context.Context) (*source.DatabaseResults, error) {
	m.callCount.Add(1)
	if m.GetDatabaseResultsFunc != nil {
		return m.GetDatabaseResultsFunc(ctx)
	}
	return &source.DatabaseResults{}, nil
}

// GetQueryResults returns a processing status unless GetQueryResultsFunc is set.
func (m *MockEnrichmentClient) GetQueryResults(ctx context.Context, id string, start, size int) (*source.EnrichmentQueryResults, error) {
	m.callCount.Add(1)
	if m.GetQueryResultsFunc != nil {
		return m.GetQueryResultsFunc(ctx, id, start, size)
	}
	return &source.EnrichmentQueryResults{Status: "processing"}, nil
}

// Delete succeeds unless DeleteFunc is set.
func (m *MockEnrichmentClient) Delete(ctx context.Context, id string) error {
	m.callCount.Add(1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// GetNetworkOverlay returns an empty stream unless GetNetworkOverlayFunc is set.
func (m *MockEnrichmentClient) GetNetworkOverlay(ctx context.Context, id, databaseUUID, networkUUID string) (io.ReadCloser, error) {
	m.callCount.Add(1)
	if m.GetNetworkOverlayFunc != nil {
		return m.GetNetworkOverlayFunc(ctx, id, databaseUUID, networkUUID)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// Close succeeds unless CloseFunc is set.
func (m *MockEnrichmentClient) Close() error {
	m.callCount.Add(1)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// CallCount returns the number of times any method was called.
func (m *MockEnrichmentClient) CallCount() int {
	return int(m.callCount.Load())
}

// MockInteractomeClient is a test double for source.InteractomeClient.
type MockInteractomeClient struct {
	SearchFunc             func(ctx context.Context, genes []string) (string, error)
	GetSearchStatusFunc    func(ctx context.Context, id string) (*source.InteractomeSearchStatus, error)
	GetSearchResultFunc    func(ctx context.Context, id string) ([]source.InteractomeSearchResult, error)
	GetDatabaseFunc        func(ctx context.Context) ([]source.InteractomeRefNetworkEntry, error)
	GetOverlaidNetworkFunc func(ctx context.Context, id, networkID string) (io.ReadCloser, error)

	statusCalls atomic.Int32
	callCount   atomic.Int32
}

var _ source.InteractomeClient = (*MockInteractomeClient)(nil)

// Search returns "interactome-task" unless SearchFunc is set.
func (m *MockInteractomeClient) Search(ctx context.Context, genes []string) (string, error) {
	m.callCount.Add(1)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, genes)
	}
	return "interactome-task", nil
}

// GetSearchStatus returns a processing status unless GetSearchStatusFunc is set.
func (m *MockInteractomeClient) GetSearchStatus(ctx context.Context, id string) (*source.InteractomeSearchStatus, error) {
	m.callCount.Add(1)
	m.statusCalls.Add(1)
	if m.GetSearchStatusFunc != nil {
		return m.GetSearchStatusFunc(ctx, id)
	}
	return &source.InteractomeSearchStatus{Status: "processing"}, nil
}

// GetSearchResult returns no hits unless GetSearchResultFunc is set.
func (m *MockInteractomeClient) GetSearchResult(ctx context.Context, id string) ([]source.InteractomeSearchResult, error) {
	m.callCount.Add(1)
	if m.GetSearchResultFunc != nil {
		return m.GetSearchResultFunc(ctx, id)
	}
	return nil, nil
}

// GetDatabase returns no entries unless GetDatabaseFunc is set.
func (m *MockInteractomeClient) GetDatabase(ctx context.Context) ([]source.InteractomeRefNetworkEntry, error) {
	m.callCount.Add(1)
	if m.GetDatabaseFunc != nil {
		return m.GetDatabaseFunc(ctx)
	}
	return []source.InteractomeRefNetworkEntry{}, nil
}

// GetOverlaidNetwork returns an empty stream unless GetOverlaidNetworkFunc is set.
func (m *MockInteractomeClient) GetOverlaidNetwork(ctx context.Context, id, networkID string) (io.ReadCloser, error) {
	m.callCount.Add(1)
	if m.GetOverlaidNetworkFunc != nil {
		return m.GetOverlaidNetworkFunc(ctx, id, networkID)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// StatusCalls returns the number of status polls issued.
func (m *MockInteractomeClient) StatusCalls() int {
	return int(m.statusCalls.Load())
}

// CallCount returns the number of times any method was called.
func (m *MockInteractomeClient) CallCount() int {
	return int(m.callCount.Load())
}

// MockKeywordClient is a test double for source.KeywordClient.
type MockKeywordClient struct {
	FindNetworksFunc    func(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error)
	GetServerStatusFunc func(ctx context.Context) (*source.ServerStatus, error)
	GetNetworkFunc      func(ctx context.Context, networkID string) (io.ReadCloser, error)

	callCount atomic.Int32
}

var _ source.KeywordClient = (*MockKeywordClient)(nil)

// FindNetworks returns no networks unless FindNetworksFunc is set.
func (m *MockKeywordClient) FindNetworks(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error) {
	m.callCount.Add(1)
	if m.FindNetworksFunc != nil {
		return m.FindNetworksFunc(ctx, query, start, size)
	}
	return &source.NetworkSearchResult{}, nil
}

// GetServerStatus reports an online server unless GetServerStatusFunc is set.
func (m *MockKeywordClient) GetServerStatus(ctx context.Context) (*source.ServerStatus, error) {
	m.callCount.Add(1)
	if m.GetServerStatusFunc != nil {
		return m.GetServerStatusFunc(ctx)
	}
	return &source.ServerStatus{Message: "Online"}, nil
}

// GetNetwork returns an empty stream unless GetNetworkFunc is set.
func (m *MockKeywordClient) GetNetwork(ctx context.Context, networkID string) (io.ReadCloser, error) {
	m.callCount.Add(1)
	if m.GetNetworkFunc != nil {
		return m.GetNetworkFunc(ctx, networkID)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// CallCount returns the number of times any method was called.
func (m *MockKeywordClient) CallCount() int {
	return int(m.callCount.Load())
}
