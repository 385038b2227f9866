// Package engine orchestrates federated gene list searches.
//
// An Engine owns four cooperating parts:
//
//   - a task registry holding live records in memory and evicting finished
//     ones to a storage.TaskStore
//   - a dispatcher goroutine that submits queued tasks to each requested
//     source adapter in order, one task at a time
//   - a catalog refresher that periodically asks every adapter for live
//     metadata and publishes an immutable snapshot
//   - a result aggregator that refreshes pending sub-results on read,
//     summarizes task progress and applies source filters and pagination
//
// Basic usage:
//
//	eng, err := engine.New(store, configs, adapters, engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	eng.Start()
//	defer eng.Shutdown()
//
//	id, err := eng.Query(ctx, &core.Query{GeneList: genes, SourceList: []string{"enrichment"}})
//	results, err := eng.GetQueryResults(ctx, id, "", 0, 0)
//
// Records returned by the engine are private copies; callers may modify them.
package engine
