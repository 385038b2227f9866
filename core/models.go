package core

import (
	"encoding/hex"
	"maps"
	"slices"

	"github.com/go-crypt/x/blake2b"
)

// Source names understood by the search engine.
const (
	SourceEnrichment             = "enrichment"
	SourceKeyword                = "keyword"
	SourceInteractomePPI         = "interactome-ppi"
	SourceInteractomeAssociation = "interactome-association"
)

// Task and sub-result statuses.
const (
	StatusSubmitted  = "submitted"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// Catalog entry statuses.
const (
	CatalogStatusOK    = "ok"
	CatalogStatusError = "error"
)

// CompleteProgress is the progress value of a terminal task or sub-result.
const CompleteProgress = 100

var sourceRanks = map[string]int{
	SourceEnrichment:             0,
	SourceKeyword:                1,
	SourceInteractomePPI:         2,
	SourceInteractomeAssociation: 3,
}

// SourceRank returns the display priority of a source. Lower sorts first.
// Unknown sources rank after every known one.
func SourceRank(name string) int {
	if rank, ok := sourceRanks[name]; ok {
		return rank
	}
	return len(sourceRanks)
}

// IsKnownSource reports whether name is one of the supported source names.
func IsKnownSource(name string) bool {
	_, ok := sourceRanks[name]
	return ok
}

// IsInteractomeSource reports whether name identifies an interactome backend.
func IsInteractomeSource(name string) bool {
	return name == SourceInteractomePPI || name == SourceInteractomeAssociation
}

// IsTerminalStatus reports whether status is complete or failed.
func IsTerminalStatus(status string) bool {
	return status == StatusComplete || status == StatusFailed
}

// Fingerprint returns a short deterministic BLAKE2b digest of data, hex encoded.
func Fingerprint(data []byte) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Query is a gene list search request against one or more sources.
type Query struct {
	GeneList   []string `json:"geneList"`
	SourceList []string `json:"sourceList"`
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	return &Query{
		GeneList:   slices.Clone(q.GeneList),
		SourceList: slices.Clone(q.SourceList),
	}
}

// SourceConfiguration describes one backend the server is allowed to query.
type SourceConfiguration struct {
	Name        string `json:"name" mapstructure:"name"`
	Endpoint    string `json:"endPoint" mapstructure:"endPoint"`
	UUID        string `json:"uuid" mapstructure:"uuid"`
	Description string `json:"description" mapstructure:"description"`
}

// SourceConfigurations is the on-disk source configuration document.
type SourceConfigurations struct {
	Sources []SourceConfiguration `json:"sources" mapstructure:"sources"`
}

// Find returns the configuration with the given name, or nil.
func (sc *SourceConfigurations) Find(name string) *SourceConfiguration {
	if sc == nil {
		return nil
	}
	for i := range sc.Sources {
		if sc.Sources[i].Name == name {
			return &sc.Sources[i]
		}
	}
	return nil
}

// DatabaseResult describes one database hosted by the enrichment service.
type DatabaseResult struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	NumberOfNetworks string `json:"numberOfNetworks"`
	URL              string `json:"url,omitempty"`
}

// SourceResult is the live catalog entry for one configured source.
type SourceResult struct {
	Name             string           `json:"name"`
	UUID             string           `json:"uuid"`
	Description      string           `json:"description"`
	Endpoint         string           `json:"endPoint"`
	Status           string           `json:"status"`
	Version          string           `json:"version"`
	NumberOfNetworks int              `json:"numberOfNetworks"`
	Databases        []DatabaseResult `json:"databases,omitempty"`
}

// Clone returns a deep copy of the catalog entry.
func (sr *SourceResult) Clone() *SourceResult {
	if sr == nil {
		return nil
	}
	c := *sr
	c.Databases = slices.Clone(sr.Databases)
	return &c
}

// Catalog is an immutable snapshot of every configured source's metadata.
type Catalog struct {
	Results     []SourceResult `json:"results"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	UpdatedAt   int64          `json:"updatedAt,omitempty"`
}

// Find returns the entry with the given source name, or nil.
func (c *Catalog) Find(name string) *SourceResult {
	if c == nil {
		return nil
	}
	for i := range c.Results {
		if c.Results[i].Name == name {
			return &c.Results[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := &Catalog{
		Fingerprint: c.Fingerprint,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Results != nil {
		out.Results = make([]SourceResult, len(c.Results))
		for i := range c.Results {
			out.Results[i] = *c.Results[i].Clone()
		}
	}
	return out
}

// SourceQueryResult is one network hit reported by a source.
type SourceQueryResult struct {
	NetworkUUID    string         `json:"networkUUID"`
	Description    string         `json:"description"`
	Nodes          int            `json:"nodes"`
	Edges          int            `json:"edges"`
	PercentOverlap int            `json:"percentOverlap"`
	Rank           int            `json:"rank"`
	HitGenes       []string       `json:"hitGenes,omitempty"`
	ImageURL       string         `json:"imageURL,omitempty"`
	URL            string         `json:"url,omitempty"`
	TotalGeneCount int            `json:"totalGeneCount"`
	Details        map[string]any `json:"details,omitempty"`
}

// Clone returns a deep copy of the item. Details values are copied shallowly.
func (r *SourceQueryResult) Clone() *SourceQueryResult {
	if r == nil {
		return nil
	}
	c := *r
	c.HitGenes = slices.Clone(r.HitGenes)
	c.Details = maps.Clone(r.Details)
	return &c
}

// SourceQueryResults is the portion of a task's result owed to one source.
type SourceQueryResults struct {
	SourceName   string              `json:"sourceName"`
	SourceUUID   string              `json:"sourceUUID"`
	SourceRank   int                 `json:"sourceRank"`
	SourceTaskID string              `json:"sourceTaskId,omitempty"`
	Status       string              `json:"status"`
	Message      string              `json:"message,omitempty"`
	Progress     int                 `json:"progress"`
	WallTime     int64               `json:"wallTime"`
	NumberOfHits int                 `json:"numberOfHits"`
	Results      []SourceQueryResult `json:"results,omitempty"`
}

// Done reports whether the sub-result will not change anymore.
func (s *SourceQueryResults) Done() bool {
	return s.Progress >= CompleteProgress || IsTerminalStatus(s.Status)
}

// Fail marks the sub-result failed with the given message.
func (s *SourceQueryResults) Fail(message string) {
	s.Status = StatusFailed
	s.Message = message
	s.Progress = CompleteProgress
	s.NumberOfHits = 0
}

// Clone returns a deep copy of the sub-result.
func (s *SourceQueryResults) Clone() *SourceQueryResults {
	if s == nil {
		return nil
	}
	c := *s
	if s.Results != nil {
		c.Results = make([]SourceQueryResult, len(s.Results))
		for i := range s.Results {
			c.Results[i] = *s.Results[i].Clone()
		}
	}
	return &c
}

// QueryResults is the aggregated record of one submitted query.
type QueryResults struct {
	Query           []string             `json:"query"`
	InputSourceList []string             `json:"inputSourceList"`
	Status          string               `json:"status"`
	Message         string               `json:"message,omitempty"`
	Progress        int                  `json:"progress"`
	NumberOfHits    int                  `json:"numberOfHits"`
	Start           int                  `json:"start"`
	Size            int                  `json:"size"`
	StartTime       int64                `json:"startTime"`
	WallTime        int64                `json:"wallTime"`
	Sources         []SourceQueryResults `json:"sources,omitempty"`
}

// NewQueryResults creates the initial record for a freshly submitted query.
func NewQueryResults(query *Query, startTime int64) *QueryResults {
	return &QueryResults{
		Query:           slices.Clone(query.GeneList),
		InputSourceList: slices.Clone(query.SourceList),
		Status:          StatusSubmitted,
		StartTime:       startTime,
	}
}

// IsTerminal reports whether the task is complete or failed.
func (qr *QueryResults) IsTerminal() bool {
	return IsTerminalStatus(qr.Status)
}

// Fail marks the whole task failed with the given message.
func (qr *QueryResults) Fail(message string) {
	qr.Status = StatusFailed
	qr.Message = message
	qr.Progress = CompleteProgress
}

// Clone returns a deep copy of the record.
func (qr *QueryResults) Clone() *QueryResults {
	if qr == nil {
		return nil
	}
	c := *qr
	c.Query = slices.Clone(qr.Query)
	c.InputSourceList = slices.Clone(qr.InputSourceList)
	if qr.Sources != nil {
		c.Sources = make([]SourceQueryResults, len(qr.Sources))
		for i := range qr.Sources {
			c.Sources[i] = *qr.Sources[i].Clone()
		}
	}
	return &c
}
