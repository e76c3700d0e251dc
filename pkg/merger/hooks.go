package merger

import (
	"sync"

	"github.com/agentstation/vartable/pkg/table"
)

// Hook function types for merge events.
type (
	// RowAddedHook is called for every row a source inserts.
	RowAddedHook func(source string, row table.Row)

	// RowMatchedHook is called for every existing row a source matches.
	RowMatchedHook func(source string, key table.Key)

	// SourceMergedHook is called after a source has been merged.
	SourceMergedHook func(result *Result)
)

// Hooks holds merge event callbacks. It is safe for concurrent registration.
type Hooks struct {
	mu             sync.RWMutex
	onRowAdded     []RowAddedHook
	onRowMatched   []RowMatchedHook
	onSourceMerged []SourceMergedHook
}

// NewHooks creates an empty set of hooks.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnRowAdded registers a callback for inserted rows.
func (h *Hooks) OnRowAdded(fn RowAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRowAdded = append(h.onRowAdded, fn)
}

// OnRowMatched registers a callback for matched rows.
func (h *Hooks) OnRowMatched(fn RowMatchedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRowMatched = append(h.onRowMatched, fn)
}

// OnSourceMerged registers a callback for completed merges.
func (h *Hooks) OnSourceMerged(fn SourceMergedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSourceMerged = append(h.onSourceMerged, fn)
}

func (h *Hooks) rowAdded(source string, row table.Row) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRowAdded {
		fn(source, row)
	}
}

func (h *Hooks) rowMatched(source string, key table.Key) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRowMatched {
		fn(source, key)
	}
}

func (h *Hooks) sourceMerged(result *Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSourceMerged {
		fn(result)
	}
}
