package vartable

import (
	"github.com/agentstation/vartable/pkg/merger"
)

// Hooks provides event callback registration.
type Hooks interface {
	// OnRowAdded registers a callback for rows a source inserts
	OnRowAdded(merger.RowAddedHook)

	// OnRowMatched registers a callback for existing rows a source matches
	OnRowMatched(merger.RowMatchedHook)

	// OnSourceMerged registers a callback for each merged source
	OnSourceMerged(merger.SourceMergedHook)
}

// OnRowAdded registers a callback for inserted rows.
func (c *client) OnRowAdded(fn merger.RowAddedHook) {
	c.hooks.OnRowAdded(fn)
}

// OnRowMatched registers a callback for matched rows.
func (c *client) OnRowMatched(fn merger.RowMatchedHook) {
	c.hooks.OnRowMatched(fn)
}

// OnSourceMerged registers a callback for merged sources.
func (c *client) OnSourceMerged(fn merger.SourceMergedHook) {
	c.hooks.OnSourceMerged(fn)
}
