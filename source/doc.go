// Package source adapts heterogeneous search backends to one contract.
//
// Each Adapter turns one backend protocol into submit, refresh, catalog,
// delete and overlay operations over core types:
//   - KeywordAdapter: synchronous NDEx keyword search
//   - EnrichmentAdapter: asynchronous enrichment service
//   - InteractomeAdapter: asynchronous interactome services, one per source name
//
// Adapters never return backend errors from Submit, Refresh or UpdateCatalog.
// Those are logged and recorded on the sub-result or catalog entry instead.
// Backend protocols are reached through the client interfaces in this
// package; package rest provides the HTTP implementations.
package source
