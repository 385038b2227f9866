package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/ndexsearch/source"
)

// DefaultNDExServer is used when no NDEx server is configured.
const DefaultNDExServer = "http://public.ndexbio.org"

// NDExClient is the HTTP client of the NDEx v2 API.
type NDExClient struct {
	*client
}

var _ source.KeywordClient = (*NDExClient)(nil)

// NewNDExClient creates a client for the NDEx server. The /v2 API prefix is
// appended unless server already ends with it. Use WithBasicAuth for
// authenticated searches.
func NewNDExClient(server string, opts ...Option) (*NDExClient, error) {
	if server == "" {
		server = DefaultNDExServer
	}
	server = strings.TrimSuffix(server, "/")
	if !strings.HasSuffix(server, "/v2") {
		server += "/v2"
	}
	c, err := newClient(server+"/", "ndex-client", opts)
	if err != nil {
		return nil, err
	}
	return &NDExClient{client: c}, nil
}

type networkSearchRequest struct {
	SearchString string `json:"searchString"`
}

// FindNetworks runs a keyword search over the networks visible to the user.
func (c *NDExClient) FindNetworks(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error) {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("size", strconv.Itoa(size))

	var out source.NetworkSearchResult
	err := c.doJSON(ctx, http.MethodPost, "search/network", q, networkSearchRequest{SearchString: query}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServerStatus returns the NDEx server status.
func (c *NDExClient) GetServerStatus(ctx context.Context) (*source.ServerStatus, error) {
	var out source.ServerStatus
	if err := c.doJSON(ctx, http.MethodGet, "admin/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNetwork streams the CX of one network. networkID must be a UUID.
func (c *NDExClient) GetNetwork(ctx context.Context, networkID string) (io.ReadCloser, error) {
	if networkID == "" {
		return nil, ErrIDRequired
	}
	id, err := uuid.Parse(networkID)
	if err != nil {
		return nil, err
	}
	return c.stream(ctx, "network/"+id.String(), nil)
}
