package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/poiesic/ndexsearch/source"
)

// InteractomeClient is the HTTP client of one interactome service.
type InteractomeClient struct {
	*client
}

var _ source.InteractomeClient = (*InteractomeClient)(nil)

// NewInteractomeClient creates a client for the interactome service at endpoint.
// A trailing slash is added to endpoint when missing.
func NewInteractomeClient(endpoint string, opts ...Option) (*InteractomeClient, error) {
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	c, err := newClient(endpoint, "interactome-client", opts)
	if err != nil {
		return nil, err
	}
	return &InteractomeClient{client: c}, nil
}

// Search submits the gene list and returns the remote task id.
func (c *InteractomeClient) Search(ctx context.Context, genes []string) (string, error) {
	if genes == nil {
		genes = []string{}
	}
	var out taskID
	if err := c.doJSON(ctx, http.MethodPost, "search", nil, genes, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetSearchStatus returns the status of a search.
func (c *InteractomeClient) GetSearchStatus(ctx context.Context, id string) (*source.InteractomeSearchStatus, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	var out source.InteractomeSearchStatus
	if err := c.doJSON(ctx, http.MethodGet, "search/"+url.PathEscape(id)+"/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSearchResult returns the hits of a finished search.
func (c *InteractomeClient) GetSearchResult(ctx context.Context, id string) ([]source.InteractomeSearchResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	var out []source.InteractomeSearchResult
	if err := c.doJSON(ctx, http.MethodGet, "search/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDatabase lists the reference networks of the service.
func (c *InteractomeClient) GetDatabase(ctx context.Context) ([]source.InteractomeRefNetworkEntry, error) {
	var out []source.InteractomeRefNetworkEntry
	if err := c.doJSON(ctx, http.MethodGet, "database", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOverlaidNetwork streams one result network with the query genes overlaid.
func (c *InteractomeClient) GetOverlaidNetwork(ctx context.Context, id, networkID string) (io.ReadCloser, error) {
	if id == "" || networkID == "" {
		return nil, ErrIDRequired
	}
	q := url.Values{}
	q.Set("networkUUID", networkID)
	return c.stream(ctx, "search/"+url.PathEscape(id)+"/overlaynetwork", q)
}
