package engine

import "github.com/poiesic/ndexsearch/core"

// Monitor provides hooks to observe the task lifecycle.
// Hooks are called synchronously from engine goroutines and must not block.
type Monitor interface {
	Submitted(taskID string)
	SourceDispatched(taskID string, result *core.SourceQueryResults)
	Dispatched(taskID string)
	Finalized(taskID string, record *core.QueryResults)
	CatalogUpdated(catalog *core.Catalog)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Submitted(_ string)                                    {}
func (n *noopMonitor) SourceDispatched(_ string, _ *core.SourceQueryResults) {}
func (n *noopMonitor) Dispatched(_ string)                                   {}
func (n *noopMonitor) Finalized(_ string, _ *core.QueryResults)              {}
func (n *noopMonitor) CatalogUpdated(_ *core.Catalog)                        {}
