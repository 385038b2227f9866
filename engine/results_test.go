package engine

import (
	"context"
	"testing"

	"github.com/poiesic/ndexsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(prefix string, n int) []core.SourceQueryResult {
	out := make([]core.SourceQueryResult, n)
	for i := range n {
		// reverse order so sorting by rank is observable
		out[i] = core.SourceQueryResult{NetworkUUID: prefix, Rank: n - 1 - i}
	}
	return out
}

func finishedRecord() *core.QueryResults {
	return &core.QueryResults{
		Query:        []string{"TP53"},
		Status:       core.StatusComplete,
		Progress:     100,
		NumberOfHits: 6,
		Sources: []core.SourceQueryResults{
			{SourceName: core.SourceInteractomePPI, SourceRank: 2, Status: core.StatusComplete, Progress: 100, NumberOfHits: 1, Results: items("ppi", 1)},
			{SourceName: core.SourceEnrichment, SourceRank: 0, Status: core.StatusComplete, Progress: 100, NumberOfHits: 3, Results: items("enr", 3)},
			{SourceName: core.SourceKeyword, SourceRank: 1, Status: core.StatusComplete, Progress: 100, NumberOfHits: 2, Results: items("kw", 2)},
		},
	}
}

type pageItem struct {
	source string
	rank   int
}

func flatten(rec *core.QueryResults) []pageItem {
	var out []pageItem
	for _, sub := range rec.Sources {
		for _, item := range sub.Results {
			out = append(out, pageItem{source: sub.SourceName, rank: item.Rank})
		}
	}
	return out
}

func TestParseSourceFilter(t *testing.T) {
	assert.Nil(t, parseSourceFilter(""))
	assert.Nil(t, parseSourceFilter("   "))
	assert.Equal(t, map[string]struct{}{"keyword": {}, "enrichment": {}}, parseSourceFilter(" keyword , enrichment,,"))
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		start   int
		size    int
		want    []pageItem
		sources []string
	}{
		{
			name: "full set sorted",
			want: []pageItem{
				{core.SourceEnrichment, 0}, {core.SourceEnrichment, 1}, {core.SourceEnrichment, 2},
				{core.SourceKeyword, 0}, {core.SourceKeyword, 1},
				{core.SourceInteractomePPI, 0},
			},
			sources: []string{core.SourceEnrichment, core.SourceKeyword, core.SourceInteractomePPI},
		},
		{
			name:    "window across sources",
			start:   2,
			size:    2,
			want:    []pageItem{{core.SourceEnrichment, 2}, {core.SourceKeyword, 0}},
			sources: []string{core.SourceEnrichment, core.SourceKeyword},
		},
		{
			name:    "size zero takes the rest",
			start:   4,
			want:    []pageItem{{core.SourceKeyword, 1}, {core.SourceInteractomePPI, 0}},
			sources: []string{core.SourceKeyword, core.SourceInteractomePPI},
		},
		{
			name:    "start past the end",
			start:   6,
			size:    10,
			want:    nil,
			sources: nil,
		},
		{
			name:    "filtered",
			filter:  "keyword, interactome-ppi",
			want:    []pageItem{{core.SourceKeyword, 0}, {core.SourceKeyword, 1}, {core.SourceInteractomePPI, 0}},
			sources: []string{core.SourceKeyword, core.SourceInteractomePPI},
		},
		{
			name:    "filtered and paginated",
			filter:  "keyword,enrichment",
			start:   1,
			size:    1,
			want:    []pageItem{{core.SourceEnrichment, 1}},
			sources: []string{core.SourceEnrichment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := paginate(filterSources(finishedRecord(), tt.filter), tt.start, tt.size)

			assert.Equal(t, tt.want, flatten(rec))
			var names []string
			for _, sub := range rec.Sources {
				names = append(names, sub.SourceName)
			}
			assert.Equal(t, tt.sources, names)
			assert.Equal(t, tt.start, rec.Start)
			assert.Equal(t, tt.size, rec.Size)
		})
	}
}

func TestPaginate_KeepsEmptySourcesWithoutPagination(t *testing.T) {
	rec := finishedRecord()
	rec.Sources = append(rec.Sources, core.SourceQueryResults{SourceName: core.SourceInteractomeAssociation, SourceRank: 3, Status: core.StatusFailed, Progress: 100})

	full := paginate(rec.Clone(), 0, 0)
	assert.Len(t, full.Sources, 4)

	paged := paginate(rec.Clone(), 0, 100)
	assert.Len(t, paged.Sources, 3)
}

func TestGetQueryResults_DoesNotModifyRegistry(t *testing.T) {
	e := newTestEngine(t, nil, testConfigs(core.SourceKeyword), keywordAdapter(1))
	const id = "0f8fad5b-d9cb-469f-a165-70867728950e"
	e.registry.add(id, &core.Query{GeneList: []string{"TP53"}}, finishedRecord())

	_, err := e.GetQueryResults(context.Background(), id, "", -1, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "start parameter must be value of 0 or greater")

	_, err = e.GetQueryResults(context.Background(), id, "", 0, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "size parameter must be value of 0 or greater")

	res, err := e.GetQueryResults(context.Background(), id, "keyword", 1, 1)
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
	res.Sources[0].Results[0].Description = "changed"

	stored, ok := e.registry.record(id)
	require.True(t, ok)
	assert.Len(t, stored.Sources, 3)
	assert.Equal(t, core.SourceInteractomePPI, stored.Sources[0].SourceName, "registry order untouched")
	assert.Len(t, stored.Sources[2].Results, 2)
	for _, item := range stored.Sources[2].Results {
		assert.Empty(t, item.Description)
	}
	assert.Zero(t, stored.Start)
	assert.Zero(t, stored.Size)
}
