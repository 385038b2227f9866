package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRank(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{name: SourceEnrichment, want: 0},
		{name: SourceKeyword, want: 1},
		{name: SourceInteractomePPI, want: 2},
		{name: SourceInteractomeAssociation, want: 3},
		{name: "foo", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceRank(tt.name))
		})
	}
}

func TestIsInteractomeSource(t *testing.T) {
	assert.True(t, IsInteractomeSource(SourceInteractomePPI))
	assert.True(t, IsInteractomeSource(SourceInteractomeAssociation))
	assert.False(t, IsInteractomeSource(SourceKeyword))
	assert.False(t, IsInteractomeSource("interactome"))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("catalog one"))
	b := Fingerprint([]byte("catalog one"))
	c := Fingerprint([]byte("catalog two"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestSourceQueryResults_Done(t *testing.T) {
	assert.False(t, (&SourceQueryResults{Status: StatusSubmitted}).Done())
	assert.False(t, (&SourceQueryResults{Status: StatusProcessing, Progress: 50}).Done())
	assert.True(t, (&SourceQueryResults{Status: StatusProcessing, Progress: 100}).Done())
	assert.True(t, (&SourceQueryResults{Status: StatusFailed}).Done())
	assert.True(t, (&SourceQueryResults{Status: StatusComplete}).Done())
}

func TestSourceQueryResults_Fail(t *testing.T) {
	sqr := &SourceQueryResults{Status: StatusProcessing, Progress: 20, NumberOfHits: 4}
	sqr.Fail("boom")

	assert.Equal(t, StatusFailed, sqr.Status)
	assert.Equal(t, "boom", sqr.Message)
	assert.Equal(t, 100, sqr.Progress)
	assert.Zero(t, sqr.NumberOfHits)
}

func TestNewQueryResults(t *testing.T) {
	q := &Query{GeneList: []string{"BRCA1"}, SourceList: []string{SourceKeyword}}
	qr := NewQueryResults(q, 42)

	assert.Equal(t, StatusSubmitted, qr.Status)
	assert.Zero(t, qr.Progress)
	assert.Equal(t, int64(42), qr.StartTime)
	assert.Equal(t, []string{"BRCA1"}, qr.Query)
	assert.Equal(t, []string{SourceKeyword}, qr.InputSourceList)

	q.GeneList[0] = "changed"
	assert.Equal(t, "BRCA1", qr.Query[0], "record must not alias the query")
}

func TestQueryResults_Clone(t *testing.T) {
	orig := &QueryResults{
		Query:  []string{"TP53"},
		Status: StatusProcessing,
		Sources: []SourceQueryResults{
			{
				SourceName: SourceEnrichment,
				Results: []SourceQueryResult{
					{
						NetworkUUID: "n1",
						HitGenes:    []string{"TP53"},
						Details:     map[string]any{"PValue": 0.01},
					},
				},
			},
		},
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Query[0] = "x"
	c.Sources[0].SourceName = "x"
	c.Sources[0].Results[0].HitGenes[0] = "x"
	c.Sources[0].Results[0].Details["PValue"] = 1.0

	assert.Equal(t, "TP53", orig.Query[0])
	assert.Equal(t, SourceEnrichment, orig.Sources[0].SourceName)
	assert.Equal(t, "TP53", orig.Sources[0].Results[0].HitGenes[0])
	assert.Equal(t, 0.01, orig.Sources[0].Results[0].Details["PValue"])

	var nilRecord *QueryResults
	assert.Nil(t, nilRecord.Clone())
}

func TestCatalog_CloneAndFind(t *testing.T) {
	cat := &Catalog{
		Results: []SourceResult{
			{Name: SourceEnrichment, Databases: []DatabaseResult{{Name: "signor"}}},
			{Name: SourceKeyword},
		},
		Fingerprint: "abc",
	}

	c := cat.Clone()
	require.Equal(t, cat, c)
	c.Results[0].Databases[0].Name = "changed"
	assert.Equal(t, "signor", cat.Results[0].Databases[0].Name)

	require.NotNil(t, cat.Find(SourceKeyword))
	assert.Nil(t, cat.Find(SourceInteractomePPI))

	var nilCatalog *Catalog
	assert.Nil(t, nilCatalog.Find(SourceKeyword))
}

func TestSourceConfigurations_Find(t *testing.T) {
	scs := &SourceConfigurations{Sources: []SourceConfiguration{
		{Name: SourceKeyword, UUID: "u1"},
	}}

	found := scs.Find(SourceKeyword)
	require.NotNil(t, found)
	assert.Equal(t, "u1", found.UUID)
	assert.Nil(t, scs.Find(SourceEnrichment))
}
