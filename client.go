// Package vartable provides the main entry point for building a consolidated
// variant table from a directory of variant and validation sources.
//
// A Client scans a sources directory, resolves every source's configuration
// against the collection's default, merges the variant sources into one
// table keyed by the configured key columns and finally runs the validation
// sources over the result.
//
// Example usage:
//
//	vt, err := vartable.New(
//	    vartable.WithRoot("./DBs"),
//	    vartable.WithSources("gnomad", "clinvar"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vt.OnRowAdded(func(source string, row table.Row) {
//	    log.Printf("%s added %v", source, row)
//	})
//
//	result, err := vt.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
//	if err := vt.Save("extended_table.xlsx"); err != nil {
//	    log.Fatal(err)
//	}
package vartable

import (
	"sync"

	"github.com/agentstation/vartable/pkg/errors"
	_ "github.com/agentstation/vartable/pkg/functions/builtin" // registers the built-in functions
	"github.com/agentstation/vartable/pkg/merger"
	"github.com/agentstation/vartable/pkg/provenance"
	"github.com/agentstation/vartable/pkg/table"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client builds and exports a consolidated variant table.
type Client interface {

	// Runner merges and validates the configured sources
	Runner

	// Persistence exports the table and its provenance
	Persistence

	// Hooks provides access to event callback registration
	Hooks

	// Table returns a copy of the consolidated table, nil before Run
	Table() *table.Table

	// Provenance returns the row provenance recorded by the last Run
	Provenance() provenance.Map
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// engine is the merge engine of the last run
	mu     sync.RWMutex
	engine *merger.Engine

	// hooks are installed on every engine the client creates
	hooks *merger.Hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.root == "" && o.resolver == nil {
		return nil, errors.New("a sources root or a resolver is required")
	}
	return &client{
		options: o,
		hooks:   merger.NewHooks(),
	}, nil
}

// Table returns a copy of the consolidated table.
func (c *client) Table() *table.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.engine == nil {
		return nil
	}
	return c.engine.Table().Clone()
}

// Provenance returns the recorded row provenance.
func (c *client) Provenance() provenance.Map {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.engine == nil {
		return nil
	}
	return c.engine.Provenance()
}
