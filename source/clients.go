package source

import (
	"context"
	"io"

	"github.com/poiesic/ndexsearch/core"
)

// EnrichmentQuery is the request body sent to the enrichment service.
type EnrichmentQuery struct {
	GeneList     []string `json:"geneList"`
	DatabaseList []string `json:"databaseList"`
}

// EnrichmentQueryResult is one network hit reported by the enrichment service.
type EnrichmentQueryResult struct {
	Rank              int      `json:"rank"`
	NetworkUUID       string   `json:"networkUUID"`
	DatabaseName      string   `json:"databaseName"`
	DatabaseUUID      string   `json:"databaseUUID"`
	Description       string   `json:"description"`
	Nodes             int      `json:"nodes"`
	Edges             int      `json:"edges"`
	PercentOverlap    int      `json:"percentOverlap"`
	HitGenes          []string `json:"hitGenes"`
	PValue            float64  `json:"pValue"`
	Similarity        float64  `json:"similarity"`
	TotalNetworkCount int      `json:"totalNetworkCount"`
	TotalGeneCount    int      `json:"totalGeneCount"`
	ImageURL          string   `json:"imageURL"`
	URL               string   `json:"url"`
}

// EnrichmentQueryResults is the status and result list of one enrichment task.
type EnrichmentQueryResults struct {
	Status       string                  `json:"status"`
	Message      string                  `json:"message"`
	Progress     int                     `json:"progress"`
	WallTime     int64                   `json:"wallTime"`
	StartTime    int64                   `json:"startTime"`
	NumberOfHits int                     `json:"numberOfHits"`
	Start        int                     `json:"start"`
	Size         int                     `json:"size"`
	Results      []EnrichmentQueryResult `json:"results"`
}

// DatabaseResults is the enrichment service database listing.
type DatabaseResults struct {
	Results []core.DatabaseResult `json:"results"`
}

// EnrichmentClient talks to the enrichment service.
type EnrichmentClient interface {
	// Query submits a search and returns the remote task id.
	Query(ctx context.Context, query *EnrichmentQuery) (string, error)
	// GetDatabaseResults lists the databases the service searches.
	GetDatabaseResults(ctx context.Context) (*DatabaseResults, error)
	// GetQueryResults returns status and results; start and size of 0 mean all.
	GetQueryResults(ctx context.Context, id string, start, size int) (*EnrichmentQueryResults, error)
	// Delete discards the remote task.
	Delete(ctx context.Context, id string) error
	// GetNetworkOverlay streams one result network.
	GetNetworkOverlay(ctx context.Context, id, databaseUUID, networkUUID string) (io.ReadCloser, error)
	// Close releases client resources.
	Close() error
}

// InteractomeSearchStatus is the status of one interactome search.
type InteractomeSearchStatus struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Progress     int    `json:"progress"`
	WallTime     int64  `json:"wallTime"`
	NumberOfHits int    `json:"numberOfHits"`
}

// InteractomeSearchResult is one network hit reported by an interactome service.
type InteractomeSearchResult struct {
	NetworkUUID    string         `json:"networkUUID"`
	Description    string         `json:"description"`
	NodeCount      int            `json:"nodeCount"`
	EdgeCount      int            `json:"edgeCount"`
	ImageURL       string         `json:"imageURL"`
	PercentOverlap int            `json:"percentOverlap"`
	Rank           int            `json:"rank"`
	HitGenes       []string       `json:"hitGenes"`
	Details        map[string]any `json:"details"`
}

// InteractomeRefNetworkEntry describes one reference network of an interactome service.
type InteractomeRefNetworkEntry struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageURL"`
	URL         string `json:"url"`
}

// InteractomeClient talks to one interactome service.
type InteractomeClient interface {
	// Search submits the gene list and returns the remote task id.
	Search(ctx context.Context, genes []string) (string, error)
	// GetSearchStatus returns the status of a search.
	GetSearchStatus(ctx context.Context, id string) (*InteractomeSearchStatus, error)
	// GetSearchResult returns the result list of a finished search.
	GetSearchResult(ctx context.Context, id string) ([]InteractomeSearchResult, error)
	// GetDatabase lists the reference networks.
	GetDatabase(ctx context.Context) ([]InteractomeRefNetworkEntry, error)
	// GetOverlaidNetwork streams one result network.
	GetOverlaidNetwork(ctx context.Context, id, networkID string) (io.ReadCloser, error)
}

// NetworkSummary is one network returned by an NDEx keyword search.
type NetworkSummary struct {
	ExternalID  string `json:"externalId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	NodeCount   int    `json:"nodeCount"`
	EdgeCount   int    `json:"edgeCount"`
}

// NetworkSearchResult is an NDEx keyword search response.
type NetworkSearchResult struct {
	NumFound int              `json:"numFound"`
	Start    int              `json:"start"`
	Networks []NetworkSummary `json:"networks"`
}

// ServerStatus is the NDEx server status response.
type ServerStatus struct {
	Message      string         `json:"message"`
	NetworkCount int            `json:"networkCount"`
	UserCount    int            `json:"userCount"`
	Properties   map[string]any `json:"properties"`
}

// KeywordClient talks to the NDEx keyword search service.
type KeywordClient interface {
	// FindNetworks runs a keyword search.
	FindNetworks(ctx context.Context, query string, start, size int) (*NetworkSearchResult, error)
	// GetServerStatus returns server health and counts.
	GetServerStatus(ctx context.Context) (*ServerStatus, error)
	// GetNetwork streams one network.
	GetNetwork(ctx context.Context, networkID string) (io.ReadCloser, error)
}
