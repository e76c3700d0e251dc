// Package merger provides the merge engine: it owns the consolidated table,
// upserts variant sources into it by key and runs validation sources over
// the result.
//
// Merging a source inserts records whose key is new and only sets the
// source's indicator column on rows that already exist. Annotations are
// computed on inserted rows only, so a row keeps the annotation values of
// the source that first inserted it.
package merger

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/provenance"
	"github.com/agentstation/vartable/pkg/sources"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/types"
)

// Merge steps, used in MergeError.Step.
const (
	StepLoad       = "load"
	StepPreprocess = "preprocess"
	StepPartition  = "partition"
	StepAnnotate   = "annotate"
	StepAppend     = "append"
)

// Engine merges sources into a consolidated table. It is not safe for
// concurrent use; callers serialise merges.
type Engine struct {
	keyCols     []string
	table       *table.Table
	variants    []*sources.Source
	validations []*sources.Source
	provenance  provenance.Tracker
	hooks       *Hooks
	logger      *zerolog.Logger
}

// New creates an engine whose table is keyed by keyCols.
func New(keyCols []string, opts ...Option) (*Engine, error) {
	if len(keyCols) == 0 {
		return nil, fmt.Errorf("merge engine needs key columns: %w", errors.ErrKeyMissing)
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	tbl := o.table
	if tbl == nil {
		tbl = table.New(keyCols...)
	} else if !sameKeys(tbl.KeyCols(), keyCols) {
		return nil, fmt.Errorf("table keyed by %v, engine keyed by %v", tbl.KeyCols(), keyCols)
	}

	return &Engine{
		keyCols:    slices.Clone(keyCols),
		table:      tbl,
		provenance: provenance.NewTracker(o.tracking),
		hooks:      o.hooks,
		logger:     o.logger,
	}, nil
}

// Register appends src to the variant or validation list according to its type.
func (e *Engine) Register(src *sources.Source) error {
	if e.registered(src.Type(), src.Name()) {
		return fmt.Errorf("%s source %q already registered", src.Type(), src.Name())
	}
	if err := e.checkName(src); err != nil {
		return err
	}
	switch src.Type() {
	case types.SourceTypeVariant:
		e.variants = append(e.variants, src)
	case types.SourceTypeValidation:
		e.validations = append(e.validations, src)
	default:
		return errors.NewUnsupportedSourceTypeError("register", src.Name(), src.Type().String())
	}
	return nil
}

// checkName rejects a source whose indicator column would land on a key
// column, an annotation column or a data column of the table, and a variant
// source whose annotations would land on a registered indicator. An
// existing column holding only 0/1 indicator values may be reused.
func (e *Engine) checkName(src *sources.Source) error {
	name := src.Name()
	if slices.Contains(e.keyCols, name) {
		return errors.NewColumnConflictError(name, "key column")
	}
	for _, v := range append(slices.Clone(e.variants), src) {
		if slices.Contains(v.Annotations().Names(), name) {
			return errors.NewColumnConflictError(name, "annotation")
		}
	}
	if src.Type() == types.SourceTypeVariant {
		for _, ann := range src.Annotations().Names() {
			if e.registered(types.SourceTypeVariant, ann) || e.registered(types.SourceTypeValidation, ann) {
				return errors.NewColumnConflictError(ann, "annotation")
			}
		}
	}
	if e.table.HasColumn(name) && !e.isIndicator(name) {
		return errors.NewColumnConflictError(name, "data column")
	}
	return nil
}

// isIndicator reports whether every value of col is an indicator value.
func (e *Engine) isIndicator(col string) bool {
	for _, row := range e.table.Rows() {
		if v := row[col]; v != constants.IndicatorOn && v != constants.IndicatorOff {
			return false
		}
	}
	return true
}

func (e *Engine) registered(typ types.SourceType, name string) bool {
	list := e.variants
	if typ == types.SourceTypeValidation {
		list = e.validations
	}
	return slices.ContainsFunc(list, func(s *sources.Source) bool { return s.Name() == name })
}

// Table returns the consolidated table.
func (e *Engine) Table() *table.Table { return e.table }

// KeyCols returns the table's key columns.
func (e *Engine) KeyCols() []string { return slices.Clone(e.keyCols) }

// Variants returns the registered variant sources in order.
func (e *Engine) Variants() []*sources.Source { return slices.Clone(e.variants) }

// Validations returns the registered validation sources in order.
func (e *Engine) Validations() []*sources.Source { return slices.Clone(e.validations) }

// Provenance returns the recorded provenance, nil when tracking is disabled.
func (e *Engine) Provenance() provenance.Map { return e.provenance.Map() }

// Hooks returns the engine's hooks for registering callbacks.
func (e *Engine) Hooks() *Hooks { return e.hooks }

func (e *Engine) log(ctx context.Context) *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}

// Merge upserts a variant source into the table.
//
// Records whose key already exists only set the source's indicator to 1.
// New records get indicator 1 for this source and 0 for every other
// variant source, then the source's annotations are computed on them in
// order. A record repeating the key of an earlier record in the same
// source counts as a duplicate and is otherwise ignored.
//
// The table is unchanged when Merge fails. The source's raw records are
// released on return.
func (e *Engine) Merge(ctx context.Context, src *sources.Source) (*Result, error) {
	if src.Type() != types.SourceTypeVariant {
		return nil, errors.NewWrongSourceTypeError("merge", src.Name(), src.Type().String())
	}
	name := src.Name()
	logger := e.log(ctx).With().Str("source", name).Logger()
	result := newResult(name)

	defer src.Release()

	if !e.registered(types.SourceTypeVariant, name) {
		if err := e.checkName(src); err != nil {
			return nil, err
		}
	}

	if err := src.Load(); err != nil {
		return nil, errors.WrapMerge(name, StepLoad, err)
	}
	if err := src.PreProcess(); err != nil {
		return nil, errors.WrapMerge(name, StepPreprocess, err)
	}
	if cols := src.KeyCols(); len(cols) > 0 && !sameKeys(cols, e.keyCols) {
		logger.Warn().
			Strs("source_keys", cols).
			Strs("table_keys", e.keyCols).
			Msg("Source key columns differ from the table's, using the table's")
	}

	records := src.Buffer()
	if slices.Contains(records.Columns(), name) {
		return nil, errors.WrapMerge(name, StepPartition, errors.NewColumnConflictError(name, "data column"))
	}
	matched, fresh, err := e.partition(name, records, result)
	if err != nil {
		return nil, errors.WrapMerge(name, StepPartition, err)
	}

	if err := src.Annotations().Compute(fresh); err != nil {
		return nil, errors.WrapMerge(name, StepAnnotate, err)
	}

	if e.table.Empty() {
		e.initColumns(src)
	}
	e.table.AddColumn(name, constants.IndicatorOff)
	before := e.table.Columns()
	if err := e.table.Append(fresh...); err != nil {
		return nil, errors.WrapMerge(name, StepAppend, err)
	}
	result.ColumnsAdded = newColumns(before, e.table.Columns())

	for _, key := range matched {
		row, _ := e.table.Lookup(key)
		row[name] = constants.IndicatorOn
		e.provenance.Track(key.String(), provenance.Provenance{Source: name, Action: provenance.ActionMatched})
		e.hooks.rowMatched(name, key)
	}
	for _, row := range fresh {
		key, _ := e.table.KeyOf(row)
		e.provenance.Track(key.String(), provenance.Provenance{Source: name, Action: provenance.ActionAdded})
		e.hooks.rowAdded(name, row)
	}

	src.MarkMerged()
	result.finalize()
	e.hooks.sourceMerged(result)

	logger.Info().
		Int("records", len(records)).
		Int("added", result.Added).
		Int("matched", result.Existing).
		Int("duplicates", result.Duplicates).
		Int("rows", e.table.Len()).
		Dur("duration", result.Duration).
		Msg("Merged source")
	return result, nil
}

// partition splits records into keys of existing rows and new records.
// New records get their indicators set; the table is not touched.
func (e *Engine) partition(name string, records table.Batch, result *Result) ([]table.Key, table.Batch, error) {
	var (
		matched []table.Key
		fresh   table.Batch
	)
	seen := make(map[string]struct{}, len(records))
	others := e.otherIndicators(name)

	for _, rec := range records {
		key, err := table.KeyFromRow(e.keyCols, rec)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[key.ID()]; dup {
			result.Duplicates++
			continue
		}
		seen[key.ID()] = struct{}{}

		if e.table.Contains(key) {
			matched = append(matched, key)
			result.Existing++
			continue
		}

		rec[name] = constants.IndicatorOn
		for _, other := range others {
			rec[other] = constants.IndicatorOff
		}
		fresh = append(fresh, rec)
		result.Added++
	}
	return matched, fresh, nil
}

// otherIndicators returns the indicator names of every other registered
// variant source.
func (e *Engine) otherIndicators(name string) []string {
	var out []string
	for _, v := range e.variants {
		if v.Name() != name {
			out = append(out, v.Name())
		}
	}
	return out
}

// initColumns lays out an empty table: key columns, one indicator per
// registered variant source, then the annotation columns of every
// registered variant source and src, in registration order.
func (e *Engine) initColumns(src *sources.Source) {
	for _, col := range e.keyCols {
		e.table.AddColumn(col, nil)
	}
	for _, v := range e.variants {
		e.table.AddColumn(v.Name(), constants.IndicatorOff)
	}
	e.table.AddColumn(src.Name(), constants.IndicatorOff)
	for _, v := range append(slices.Clone(e.variants), src) {
		for _, name := range v.Annotations().Names() {
			e.table.AddColumn(name, table.FillValue)
		}
	}
}

func newColumns(before, after []string) []string {
	var out []string
	for _, col := range after {
		if !slices.Contains(before, col) {
			out = append(out, col)
		}
	}
	return out
}

// MergeAll merges every registered variant source in registration order.
// It stops at the first error, or once ctx is done, and returns the results
// gathered so far.
func (e *Engine) MergeAll(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, 0, len(e.variants))
	for _, src := range e.variants {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := e.Merge(ctx, src)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ValidateAll runs each validation source's validator against the table in
// registration order. A table returned by a validator replaces the engine's
// table. Validator errors are returned as is.
func (e *Engine) ValidateAll(ctx context.Context) error {
	for _, src := range e.validations {
		if err := e.validate(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validate(ctx context.Context, src *sources.Source) error {
	logger := e.log(ctx).With().Str("source", src.Name()).Logger()
	defer src.Release()

	cfg := src.Config()
	if cfg.Validator == nil {
		logger.Warn().Msg("Validation source has no validator, skipping")
		return nil
	}

	out, err := cfg.Validator(src, e.table)
	if err != nil {
		logger.Error().Err(err).Str("validator", cfg.ValidatorName).Msg("Validation failed")
		return err
	}
	if out != nil {
		if !sameKeys(out.KeyCols(), e.keyCols) {
			return fmt.Errorf("validator %s returned a table keyed by %v", cfg.ValidatorName, out.KeyCols())
		}
		e.table = out
	}
	logger.Info().Str("validator", cfg.ValidatorName).Msg("Validated table")
	return nil
}
