package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/ndexsearch/core"
)

// parseSourceFilter splits a comma separated source list. A blank filter
// yields nil, meaning every source is kept.
func parseSourceFilter(filter string) map[string]struct{} {
	if strings.TrimSpace(filter) == "" {
		return nil
	}
	allow := make(map[string]struct{})
	for _, name := range strings.Split(filter, ",") {
		if name = strings.TrimSpace(name); name != "" {
			allow[name] = struct{}{}
		}
	}
	return allow
}

// filterSources keeps only the sub-results named in filter. rec is modified.
func filterSources(rec *core.QueryResults, filter string) *core.QueryResults {
	allow := parseSourceFilter(filter)
	if allow == nil {
		return rec
	}
	rec.Sources = slices.DeleteFunc(rec.Sources, func(sub core.SourceQueryResults) bool {
		_, ok := allow[sub.SourceName]
		return !ok
	})
	return rec
}

// paginate orders sub-results by source rank and items by rank, then keeps
// size items starting at start across the flattened list. A size of 0 keeps
// everything from start on. Sub-results left without items are dropped
// unless both start and size are 0. rec is modified.
func paginate(rec *core.QueryResults, start, size int) *core.QueryResults {
	rec.Start = start
	rec.Size = size

	slices.SortStableFunc(rec.Sources, func(a, b core.SourceQueryResults) int {
		return cmp.Compare(a.SourceRank, b.SourceRank)
	})
	for i := range rec.Sources {
		slices.SortStableFunc(rec.Sources[i].Results, func(a, b core.SourceQueryResult) int {
			return cmp.Compare(a.Rank, b.Rank)
		})
	}

	if start == 0 && size == 0 {
		return rec
	}

	pos, taken := 0, 0
	kept := rec.Sources[:0]
	for _, sub := range rec.Sources {
		var items []core.SourceQueryResult
		for _, item := range sub.Results {
			if pos++; pos <= start {
				continue
			}
			if size > 0 && taken >= size {
				break
			}
			items = append(items, item)
			taken++
		}
		if len(items) == 0 {
			continue
		}
		sub.Results = items
		kept = append(kept, sub)
	}
	rec.Sources = kept
	return rec
}
