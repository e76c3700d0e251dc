package vartable

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/vartable/pkg/collection"
	"github.com/agentstation/vartable/pkg/config"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions/builtin"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/merger"
	"github.com/agentstation/vartable/pkg/sources"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/tablefile"
	"github.com/agentstation/vartable/pkg/types"
)

// Runner merges and validates sources.
type Runner interface {
	// Run scans, resolves, merges and validates every configured source
	Run(ctx context.Context) (*Result, error)
}

// Result summarises a run.
type Result struct {
	// Sources holds one merge result per variant source, in merge order.
	Sources []*merger.Result
	// Validated lists the validation sources run against the table.
	Validated []string
	// Defaulted lists sources whose own configuration could not be used.
	Defaulted []string

	KeyCols []string
	Rows    int
	Columns int

	StartTime utc.Time
	Duration  time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d sources merged into %d rows x %d columns, %d validations in %v",
		len(r.Sources), r.Rows, r.Columns, len(r.Validated), r.Duration.Round(time.Millisecond))
}

// Run builds the consolidated table. A previous run's table is replaced.
// ctx must be non-nil; it carries the logger and cancellation.
func (c *client) Run(ctx context.Context) (*Result, error) {
	// Step 0: Set logger
	logger := logging.FromContext(ctx)
	result := &Result{StartTime: utc.Now()}

	// Step 1: Scan the sources directory
	var coll *collection.Collection
	if c.options.root != "" {
		var err error
		if coll, err = collection.Scan(c.options.root); err != nil {
			return nil, err
		}
		logger.Debug().
			Str("root", c.options.root).
			Strs("variants", coll.Names(types.SourceTypeVariant)).
			Strs("validations", coll.Names(types.SourceTypeValidation)).
			Msg("Scanned sources")
	}

	// Step 2: Build the resolver and the default variant configuration
	resolver := c.options.resolver
	if resolver == nil {
		resolver = config.NewResolver(coll.Registry)
	}
	def, err := resolver.Default(ctx, types.SourceTypeVariant)
	if err != nil {
		return nil, err
	}
	keyCols := c.options.keyCols
	if len(keyCols) == 0 {
		keyCols = def.KeyCols
	}
	result.KeyCols = slices.Clone(keyCols)

	// Step 3: Pick the sources to merge
	variants := c.options.sources
	if len(variants) == 0 {
		variants = discovered(coll, resolver, types.SourceTypeVariant)
	}
	validations := discovered(coll, resolver, types.SourceTypeValidation)

	// Step 4: Create the engine, optionally from an existing table
	engineOpts := []merger.Option{
		merger.WithProvenance(c.options.provenance),
		merger.WithHooks(c.hooks),
	}
	if c.options.existingTable != "" {
		existing, err := loadExisting(c.options.existingTable, keyCols, def, append(append([]string(nil), variants...), validations...))
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("path", c.options.existingTable).
			Int("rows", existing.Len()).
			Msg("Loaded existing table")
		engineOpts = append(engineOpts, merger.WithTable(existing))
	}
	engine, err := merger.New(keyCols, engineOpts...)
	if err != nil {
		return nil, err
	}

	// Step 5: Resolve and register every source
	for _, group := range []struct {
		typ   types.SourceType
		names []string
	}{
		{types.SourceTypeVariant, variants},
		{types.SourceTypeValidation, validations},
	} {
		for _, name := range group.names {
			src, err := c.source(ctx, coll, resolver, group.typ, name)
			if err != nil {
				return nil, err
			}
			if src.Config().Defaulted {
				result.Defaulted = append(result.Defaulted, src.String())
			}
			if err := engine.Register(src); err != nil {
				return nil, err
			}
		}
	}

	// Step 6: Merge the variant sources
	results, err := engine.MergeAll(ctx)
	result.Sources = results
	if err != nil {
		return result, err
	}

	// Step 7: Validate the table
	if err := engine.ValidateAll(ctx); err != nil {
		return result, err
	}
	result.Validated = validations

	c.mu.Lock()
	c.engine = engine
	c.mu.Unlock()

	result.Rows = engine.Table().Len()
	result.Columns = len(engine.Table().Columns())
	result.Duration = time.Since(result.StartTime.Time)

	logger.Info().
		Int("sources", len(results)).
		Int("rows", result.Rows).
		Int("columns", result.Columns).
		Dur("duration", result.Duration).
		Msg("Run complete")
	return result, nil
}

// source resolves the configuration of name and wraps it with its data
// directory.
func (c *client) source(ctx context.Context, coll *collection.Collection, resolver *config.Resolver, typ types.SourceType, name string) (*sources.Source, error) {
	cfg, err := resolver.Resolve(ctx, name, typ)
	if err != nil {
		return nil, err
	}

	var opts []sources.Option
	if coll != nil {
		if entry, ok := coll.Entry(typ, name); ok {
			opts = append(opts, sources.WithDir(entry.Dir))
		} else if typ == types.SourceTypeVariant {
			return nil, errors.NewRawDataError(name, "", fmt.Errorf("no %s directory under %s", typ, coll.Root))
		}
	}
	return sources.New(name, typ, cfg, opts...)
}

// discovered lists the non-default sources of typ, from the collection when
// there is one and from the resolver's registry otherwise.
func discovered(coll *collection.Collection, resolver *config.Resolver, typ types.SourceType) []string {
	if coll != nil {
		return coll.Names(typ)
	}
	var names []string
	for _, name := range resolver.Registry().Names(typ) {
		if name != resolver.DefaultName() {
			names = append(names, name)
		}
	}
	return names
}

// loadExisting reads a previously exported table and restores cell types:
// configured column types, annotation types and 0/1 indicators.
func loadExisting(path string, keyCols []string, def *config.Configuration, indicators []string) (*table.Table, error) {
	data, err := tablefile.Read(path)
	if err != nil {
		return nil, err
	}

	colTypes := builtin.ColumnTypes(def.Options)
	for _, a := range def.Annotations.List() {
		if a.Type != "" {
			colTypes[a.Name] = a.Type
		}
	}
	for _, name := range indicators {
		colTypes[name] = table.TypeInt
	}

	rows := data.Rows()
	for i, row := range rows {
		for col, typ := range colTypes {
			v, ok := row[col]
			if !ok {
				continue
			}
			converted, err := table.Convert(v, typ)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", path, i+1, col, err)
			}
			row[col] = converted
		}
	}
	return table.FromRows(keyCols, data.Columns(), rows)
}
