package vartable

import (
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/provenance"
	"github.com/agentstation/vartable/pkg/tablefile"
)

// Persistence handles export of the consolidated table.
type Persistence interface {
	// Save writes the table to path in the format named by its extension
	Save(path string, opts ...tablefile.Option) error

	// SaveProvenance writes the row provenance as YAML
	SaveProvenance(path string) error
}

// Save exports the consolidated table.
func (c *client) Save(path string, opts ...tablefile.Option) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.engine == nil {
		return errors.New("nothing to save: run has not completed")
	}
	return tablefile.Save(path, c.engine.Table(), opts...)
}

// SaveProvenance exports the provenance recorded during the last run.
func (c *client) SaveProvenance(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.engine == nil {
		return errors.New("nothing to save: run has not completed")
	}
	return provenance.Save(path, c.engine.Provenance())
}
