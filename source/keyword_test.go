package source_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/source"
	"github.com/poiesic/ndexsearch/source/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeywordAdapter_RequiresClient(t *testing.T) {
	_, err := source.NewKeywordAdapter(nil)
	require.ErrorIs(t, err, source.ErrClientRequired)
}

func TestKeywordAdapter_Submit(t *testing.T) {
	var gotQuery string
	var gotSize int
	client := &mock.MockKeywordClient{
		FindNetworksFunc: func(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error) {
			gotQuery = query
			gotSize = size
			return &source.NetworkSearchResult{
				NumFound: 2,
				Networks: []source.NetworkSummary{
					{ExternalID: "net-a", Name: "alpha", NodeCount: 10, EdgeCount: 20},
					{ExternalID: "net-b", Name: "beta", NodeCount: 3, EdgeCount: 4},
				},
			}, nil
		},
	}
	adapter, err := source.NewKeywordAdapter(client,
		source.WithUnsetImageURL("http://img/unset.png"),
		source.WithHostURL("http://ndex.host/"),
		source.WithKeywordResultLimit(25),
	)
	require.NoError(t, err)

	sqr := adapter.Submit(context.Background(), &core.Query{GeneList: []string{"TP53", " ", "MDM2"}})
	require.NotNil(t, sqr)

	assert.Equal(t, "TP53 MDM2", gotQuery)
	assert.Equal(t, 25, gotSize)
	assert.Equal(t, core.SourceKeyword, sqr.SourceName)
	assert.Equal(t, core.StatusComplete, sqr.Status)
	assert.Equal(t, core.CompleteProgress, sqr.Progress)
	assert.NotEmpty(t, sqr.SourceTaskID)
	assert.Equal(t, 2, sqr.NumberOfHits)
	require.Len(t, sqr.Results, 2)

	assert.Equal(t, "net-a", sqr.Results[0].NetworkUUID)
	assert.Equal(t, "alpha", sqr.Results[0].Description)
	assert.Equal(t, 0, sqr.Results[0].Rank)
	assert.Equal(t, 1, sqr.Results[1].Rank)
	assert.Equal(t, "http://img/unset.png", sqr.Results[0].ImageURL)
	assert.Equal(t, "http://ndex.host/#/network/net-a", sqr.Results[0].URL)

	again := adapter.Submit(context.Background(), &core.Query{GeneList: []string{"TP53"}})
	assert.Equal(t, sqr.SourceTaskID, again.SourceTaskID, "handle is stable per adapter")
}

func TestKeywordAdapter_SubmitFailures(t *testing.T) {
	tests := []struct {
		name    string
		find    func(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error)
		message string
	}{
		{
			name: "client error",
			find: func(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error) {
				return nil, errors.New("boom")
			},
			message: "keyword failed : boom",
		},
		{
			name: "nil result",
			find: func(ctx context.Context, query string, start, size int) (*source.NetworkSearchResult, error) {
				return nil, nil
			},
			message: "failed for unknown reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := source.NewKeywordAdapter(&mock.MockKeywordClient{FindNetworksFunc: tt.find})
			require.NoError(t, err)

			sqr := adapter.Submit(context.Background(), &core.Query{GeneList: []string{"TP53"}})
			assert.Equal(t, core.StatusFailed, sqr.Status)
			assert.Equal(t, tt.message, sqr.Message)
			assert.Equal(t, core.CompleteProgress, sqr.Progress)
			assert.Zero(t, sqr.NumberOfHits)
		})
	}
}

func TestKeywordAdapter_UpdateCatalog(t *testing.T) {
	tests := []struct {
		name     string
		status   *source.ServerStatus
		err      error
		want     string
		version  string
		networks int
	}{
		{
			name:     "online with version",
			status:   &source.ServerStatus{Message: "Online", NetworkCount: 42, Properties: map[string]any{"ServerVersion": "2.5.0"}},
			want:     core.CatalogStatusOK,
			version:  "2.5.0",
			networks: 42,
		},
		{
			name:     "online without version",
			status:   &source.ServerStatus{Message: "ONLINE", NetworkCount: 1},
			want:     core.CatalogStatusOK,
			version:  "unknown",
			networks: 1,
		},
		{
			name:     "offline",
			status:   &source.ServerStatus{Message: "maintenance", NetworkCount: 7},
			want:     core.CatalogStatusError,
			version:  "unknown",
			networks: 7,
		},
		{
			name:    "client error",
			err:     errors.New("unreachable"),
			want:    core.CatalogStatusError,
			version: "old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mock.MockKeywordClient{
				GetServerStatusFunc: func(ctx context.Context) (*source.ServerStatus, error) {
					return tt.status, tt.err
				},
			}
			adapter, err := source.NewKeywordAdapter(client)
			require.NoError(t, err)

			entry := &core.SourceResult{Name: core.SourceKeyword, Version: "old"}
			adapter.UpdateCatalog(context.Background(), entry)

			assert.Equal(t, tt.want, entry.Status)
			assert.Equal(t, tt.version, entry.Version)
			assert.Equal(t, tt.networks, entry.NumberOfNetworks)
		})
	}
}

func TestKeywordAdapter_StreamOverlayNetwork(t *testing.T) {
	t.Run("streams network", func(t *testing.T) {
		client := &mock.MockKeywordClient{
			GetNetworkFunc: func(ctx context.Context, networkID string) (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("cx:" + networkID)), nil
			},
		}
		adapter, err := source.NewKeywordAdapter(client)
		require.NoError(t, err)

		rc, err := adapter.StreamOverlayNetwork(context.Background(), "handle", "net-a")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "cx:net-a", string(body))
	})

	t.Run("wraps failure", func(t *testing.T) {
		client := &mock.MockKeywordClient{
			GetNetworkFunc: func(ctx context.Context, networkID string) (io.ReadCloser, error) {
				return nil, errors.New("gone")
			},
		}
		adapter, err := source.NewKeywordAdapter(client)
		require.NoError(t, err)

		_, err = adapter.StreamOverlayNetwork(context.Background(), "handle", "net-a")
		require.ErrorIs(t, err, source.ErrOverlayUnavailable)
	})
}

func TestKeywordAdapter_NoOps(t *testing.T) {
	client := &mock.MockKeywordClient{}
	adapter, err := source.NewKeywordAdapter(client)
	require.NoError(t, err)

	sqr := &core.SourceQueryResults{Status: core.StatusComplete, Progress: 100}
	adapter.Refresh(context.Background(), sqr)
	assert.Equal(t, core.StatusComplete, sqr.Status)

	assert.NoError(t, adapter.Delete(context.Background(), "handle"))
	assert.NoError(t, adapter.Shutdown())
	assert.Zero(t, client.CallCount())
}
