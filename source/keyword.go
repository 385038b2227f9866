package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/ndexsearch/core"
)

const (
	keywordVersionProperty = "ServerVersion"
	keywordOnlineMessage   = "online"
	unknownVersion         = "unknown"
)

// KeywordAdapter runs synchronous keyword searches against NDEx.
type KeywordAdapter struct {
	client KeywordClient
	// handle is reported as the remote task id of every keyword sub-result.
	handle        string
	unsetImageURL string
	hostURL       string
	limit         int
	logger        *slog.Logger
}

var _ Adapter = (*KeywordAdapter)(nil)

// NewKeywordAdapter creates the keyword adapter.
func NewKeywordAdapter(client KeywordClient, opts ...Option) (*KeywordAdapter, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	s, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &KeywordAdapter{
		client:        client,
		handle:        uuid.NewString(),
		unsetImageURL: s.unsetImageURL,
		hostURL:       strings.TrimSuffix(s.hostURL, "/"),
		limit:         s.keywordResultLimit,
		logger:        s.logger.With("component", "source", "source", core.SourceKeyword),
	}, nil
}

// Name returns the keyword source name.
func (a *KeywordAdapter) Name() string {
	return core.SourceKeyword
}

// Submit runs the search immediately and returns a terminal sub-result.
func (a *KeywordAdapter) Submit(ctx context.Context, query *core.Query) *core.SourceQueryResults {
	q := strings.Join(nonEmpty(query.GeneList), " ")
	a.logger.Debug("keyword query", "query", q)

	res, err := a.client.FindNetworks(ctx, q, 0, a.limit)
	if err != nil {
		a.logger.Error("keyword search failed", "err", err)
		return failedSubResult(core.SourceKeyword, fmt.Sprintf("%s failed : %s", core.SourceKeyword, err))
	}
	if res == nil {
		a.logger.Error("keyword search returned no result")
		return failedSubResult(core.SourceKeyword, "failed for unknown reason")
	}

	items := make([]core.SourceQueryResult, 0, len(res.Networks))
	for i, ns := range res.Networks {
		item := core.SourceQueryResult{
			NetworkUUID:    ns.ExternalID,
			Description:    ns.Name,
			Nodes:          ns.NodeCount,
			Edges:          ns.EdgeCount,
			PercentOverlap: 0,
			Rank:           i,
			ImageURL:       a.unsetImageURL,
		}
		if a.hostURL != "" && ns.ExternalID != "" {
			item.URL = a.hostURL + "/#/network/" + ns.ExternalID
		}
		items = append(items, item)
	}

	sqr := newSubResult(core.SourceKeyword)
	sqr.SourceTaskID = a.handle
	sqr.Status = core.StatusComplete
	sqr.Progress = core.CompleteProgress
	sqr.Results = items
	sqr.NumberOfHits = len(items)
	return sqr
}

// Refresh is a no-op; keyword sub-results are terminal on submission.
func (a *KeywordAdapter) Refresh(ctx context.Context, result *core.SourceQueryResults) {}

// UpdateCatalog queries the NDEx server status.
func (a *KeywordAdapter) UpdateCatalog(ctx context.Context, entry *core.SourceResult) {
	status, err := a.client.GetServerStatus(ctx)
	if err != nil || status == nil {
		a.logger.Error("unable to query server status", "err", err)
		entry.Status = core.CatalogStatusError
		return
	}

	entry.NumberOfNetworks = status.NetworkCount
	if strings.EqualFold(status.Message, keywordOnlineMessage) {
		entry.Status = core.CatalogStatusOK
	} else {
		entry.Status = core.CatalogStatusError
	}

	entry.Version = unknownVersion
	if v, ok := status.Properties[keywordVersionProperty].(string); ok && v != "" {
		entry.Version = v
	}
}

// Delete is a no-op; keyword searches keep no server-side state.
func (a *KeywordAdapter) Delete(ctx context.Context, handle string) error {
	return nil
}

// StreamOverlayNetwork streams the network itself; keyword hits have no overlay.
func (a *KeywordAdapter) StreamOverlayNetwork(ctx context.Context, handle, networkID string) (io.ReadCloser, error) {
	rc, err := a.client.GetNetwork(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOverlayUnavailable, networkID, err)
	}
	return rc, nil
}

// Shutdown is a no-op.
func (a *KeywordAdapter) Shutdown() error {
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
