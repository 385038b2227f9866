package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/poiesic/ndexsearch/source"
)

// EnrichmentClient is the HTTP client of the enrichment service.
type EnrichmentClient struct {
	*client
}

var _ source.EnrichmentClient = (*EnrichmentClient)(nil)

// NewEnrichmentClient creates a client for the enrichment service at endpoint.
// A trailing slash on endpoint is ignored.
func NewEnrichmentClient(endpoint string, opts ...Option) (*EnrichmentClient, error) {
	c, err := newClient(strings.TrimSuffix(endpoint, "/"), "enrichment-client", opts)
	if err != nil {
		return nil, err
	}
	return &EnrichmentClient{client: c}, nil
}

// Query submits a search and returns the remote task id.
func (c *EnrichmentClient) Query(ctx context.Context, query *source.EnrichmentQuery) (string, error) {
	var out taskID
	if err := c.doJSON(ctx, http.MethodPost, "", nil, query, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetDatabaseResults lists the databases the service searches.
func (c *EnrichmentClient) GetDatabaseResults(ctx context.Context) (*source.DatabaseResults, error) {
	var out source.DatabaseResults
	if err := c.doJSON(ctx, http.MethodGet, "/database", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQueryResults returns the status and results of a remote task.
func (c *EnrichmentClient) GetQueryResults(ctx context.Context, id string, start, size int) (*source.EnrichmentQueryResults, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("size", strconv.Itoa(size))

	var out source.EnrichmentQueryResults
	if err := c.doJSON(ctx, http.MethodGet, "/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete discards the remote task.
func (c *EnrichmentClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return c.doJSON(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil, nil)
}

// GetNetworkOverlay streams one result network of the remote task.
func (c *EnrichmentClient) GetNetworkOverlay(ctx context.Context, id, databaseUUID, networkUUID string) (io.ReadCloser, error) {
	if id == "" || networkUUID == "" {
		return nil, ErrIDRequired
	}
	q := url.Values{}
	q.Set("databaseUUID", databaseUUID)
	q.Set("networkUUID", networkUUID)
	return c.stream(ctx, "/"+url.PathEscape(id)+"/overlaynetwork", q)
}

// Close releases idle connections.
func (c *EnrichmentClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
