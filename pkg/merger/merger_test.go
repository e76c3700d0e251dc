package merger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/config"
	pkgerrors "github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions/builtin"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/merger"
	"github.com/agentstation/vartable/pkg/sources"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/types"
)

var keyCols = []string{"chrom", "pos"}

func passthrough(records table.Batch, _ map[string]any) (table.Batch, error) {
	return records, nil
}

func adarFixable(t *testing.T) *annotations.Annotation {
	t.Helper()
	fn, err := builtin.NewSubstitution(map[string]any{"from": "G", "to": "A"})
	require.NoError(t, err)
	return &annotations.Annotation{Name: "isADARFixable", Type: "bool", Function: builtin.Substitution, Compute: fn}
}

func variant(t *testing.T, name string, rows []table.Row, anns ...*annotations.Annotation) *sources.Source {
	t.Helper()
	cfg := &config.Configuration{
		Name:             name,
		Type:             types.SourceTypeVariant,
		KeyCols:          keyCols,
		PreProcessorName: "passthrough",
		PreProcessor:     passthrough,
		Annotations:      annotations.NewSet(anns...),
	}
	src, err := sources.New(name, types.SourceTypeVariant, cfg, sources.WithRecords(rows))
	require.NoError(t, err)
	return src
}

func validation(t *testing.T, name string, fn config.Configuration, rows []table.Row) *sources.Source {
	t.Helper()
	cfg := fn
	cfg.Name = name
	cfg.Type = types.SourceTypeValidation
	src, err := sources.New(name, types.SourceTypeValidation, &cfg, sources.WithRecords(rows))
	require.NoError(t, err)
	return src
}

func newEngine(t *testing.T, srcs ...*sources.Source) *merger.Engine {
	t.Helper()
	logging.DisableLoggingForTest(t)
	e, err := merger.New(keyCols)
	require.NoError(t, err)
	for _, s := range srcs {
		require.NoError(t, e.Register(s))
	}
	return e
}

func lookup(t *testing.T, e *merger.Engine, values ...any) table.Row {
	t.Helper()
	row, ok := e.Table().Lookup(table.KeyFromValues(values...))
	require.True(t, ok, "row %v not found", values)
	return row
}

func TestNew(t *testing.T) {
	_, err := merger.New(nil)
	assert.ErrorIs(t, err, pkgerrors.ErrKeyMissing)

	_, err = merger.New(keyCols, merger.WithTable(table.New("id")))
	assert.Error(t, err)

	_, err = merger.New(keyCols, merger.WithTable(nil))
	assert.Error(t, err)

	existing := table.New(keyCols...)
	e, err := merger.New(keyCols, merger.WithTable(existing))
	require.NoError(t, err)
	assert.Same(t, existing, e.Table())
	assert.Equal(t, keyCols, e.KeyCols())
}

func TestRegister(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Register(variant(t, "S1", nil)))
	require.NoError(t, e.Register(validation(t, "truth", config.Configuration{}, nil)))

	assert.Len(t, e.Variants(), 1)
	assert.Len(t, e.Validations(), 1)

	assert.Error(t, e.Register(variant(t, "S1", nil)), "duplicate names are rejected")
}

func TestMergeScenario(t *testing.T) {
	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(100), "ref": "G", "alt": "A"}}, adarFixable(t))
	s2 := variant(t, "S2", []table.Row{{"chrom": "1", "pos": int64(100), "ref": "T", "alt": "T"}}, adarFixable(t))
	e := newEngine(t, s1, s2)
	ctx := context.Background()

	r1, err := e.Merge(ctx, s1)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Added)
	assert.Equal(t, 1, e.Table().Len())

	row := lookup(t, e, "1", int64(100))
	assert.Equal(t, int64(1), row["S1"])
	assert.Equal(t, int64(0), row["S2"])
	assert.Equal(t, true, row["isADARFixable"])

	r2, err := e.Merge(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, 0, r2.Added)
	assert.Equal(t, 1, r2.Existing)
	assert.Equal(t, 1, e.Table().Len())

	row = lookup(t, e, "1", int64(100))
	assert.Equal(t, int64(1), row["S1"])
	assert.Equal(t, int64(1), row["S2"])
	assert.Equal(t, true, row["isADARFixable"], "annotations are fixed at first insertion")
	assert.Equal(t, "G", row["ref"])
}

func TestMergeColumnLayout(t *testing.T) {
	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1), "ref": "G", "alt": "A"}}, adarFixable(t))
	s2 := variant(t, "S2", nil)
	e := newEngine(t, s1, s2)

	result, err := e.Merge(context.Background(), s1)
	require.NoError(t, err)
	assert.Equal(t, []string{"chrom", "pos", "S1", "S2", "isADARFixable", "alt", "ref"}, e.Table().Columns())
	assert.Contains(t, result.ColumnsAdded, "ref")
}

func TestMergeLaysOutEveryAnnotation(t *testing.T) {
	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}})
	s2 := variant(t, "S2", []table.Row{{"chrom": "2", "pos": int64(2), "ref": "G", "alt": "A"}}, adarFixable(t))
	e := newEngine(t, s1, s2)

	_, err := e.Merge(context.Background(), s1)
	require.NoError(t, err)
	assert.Equal(t, []string{"chrom", "pos", "S1", "S2", "isADARFixable"}, e.Table().Columns())
	assert.Equal(t, table.FillValue, lookup(t, e, "1", int64(1))["isADARFixable"])

	_, err = e.Merge(context.Background(), s2)
	require.NoError(t, err)
	assert.Equal(t, true, lookup(t, e, "2", int64(2))["isADARFixable"])
	assert.Equal(t, table.FillValue, lookup(t, e, "1", int64(1))["isADARFixable"], "annotations are computed on inserted rows only")
}

func TestMergeIndicatorIndependence(t *testing.T) {
	a := variant(t, "A", []table.Row{{"chrom": "1", "pos": int64(5)}})
	b := variant(t, "B", []table.Row{{"chrom": "1", "pos": int64(5)}, {"chrom": "2", "pos": int64(9)}})
	c := variant(t, "C", []table.Row{{"chrom": "3", "pos": int64(1)}})
	e := newEngine(t, a, b, c)

	_, err := e.MergeAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, e.Table().Len())

	shared := lookup(t, e, "1", int64(5))
	assert.Equal(t, int64(1), shared["A"])
	assert.Equal(t, int64(1), shared["B"])
	assert.Equal(t, int64(0), shared["C"])

	onlyB := lookup(t, e, "2", int64(9))
	assert.Equal(t, int64(0), onlyB["A"])
	assert.Equal(t, int64(1), onlyB["B"])
	assert.Equal(t, int64(0), onlyB["C"])

	onlyC := lookup(t, e, "3", int64(1))
	assert.Equal(t, int64(0), onlyC["A"])
	assert.Equal(t, int64(0), onlyC["B"])
	assert.Equal(t, int64(1), onlyC["C"])
}

func TestMergeIdempotent(t *testing.T) {
	rows := []table.Row{
		{"chrom": "1", "pos": int64(100), "ref": "G", "alt": "A"},
		{"chrom": "1", "pos": int64(200), "ref": "T", "alt": "C"},
	}
	s1 := variant(t, "S1", rows, adarFixable(t))
	e := newEngine(t, s1)
	ctx := context.Background()

	_, err := e.Merge(ctx, s1)
	require.NoError(t, err)
	before := e.Table().Clone()

	result, err := e.Merge(ctx, s1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Existing)
	assert.Empty(t, result.ColumnsAdded)
	assert.Equal(t, before.Columns(), e.Table().Columns())
	assert.Equal(t, before.Rows(), e.Table().Rows())
}

func TestMergeKeyUniqueness(t *testing.T) {
	s1 := variant(t, "S1", []table.Row{
		{"chrom": "1", "pos": int64(1)},
		{"chrom": "1", "pos": int64(1)},
		{"chrom": "1", "pos": "1"},
	})
	s2 := variant(t, "S2", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "1", "pos": int64(2)}})
	e := newEngine(t, s1, s2)

	results, err := e.MergeAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Duplicates)
	assert.Equal(t, 2, results[0].Added, "keys are compared by type and value")
	assert.Equal(t, 3, results[0].Records())

	seen := map[string]bool{}
	for _, row := range e.Table().Rows() {
		key, err := e.Table().KeyOf(row)
		require.NoError(t, err)
		assert.False(t, seen[key.ID()], "duplicate key %s", key)
		seen[key.ID()] = true
	}
	assert.Len(t, seen, 3)
}

func TestMergeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong source type", func(t *testing.T) {
		v := validation(t, "truth", config.Configuration{}, nil)
		e := newEngine(t)
		_, err := e.Merge(ctx, v)
		assert.ErrorIs(t, err, pkgerrors.ErrWrongSourceType)
	})

	t.Run("unsupported source type", func(t *testing.T) {
		_, err := sources.New("x", types.SourceType("bogus"), &config.Configuration{})
		assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedSourceType)
	})

	t.Run("pre-processor missing", func(t *testing.T) {
		src := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}})
		src.Config().PreProcessor = nil
		e := newEngine(t, src)

		_, err := e.Merge(ctx, src)
		assert.ErrorIs(t, err, pkgerrors.ErrPreprocessorMissing)
		var merr *pkgerrors.MergeError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, merger.StepPreprocess, merr.Step)
		assert.Equal(t, sources.StateUnloaded, src.State(), "buffer released on error")
		assert.True(t, e.Table().Empty())
	})

	t.Run("raw data unavailable", func(t *testing.T) {
		cfg := &config.Configuration{Name: "S1", Type: types.SourceTypeVariant, PreProcessor: passthrough}
		src, err := sources.New("S1", types.SourceTypeVariant, cfg, sources.WithPath("/nonexistent/variants_table.csv"))
		require.NoError(t, err)
		e := newEngine(t, src)

		_, err = e.Merge(ctx, src)
		assert.ErrorIs(t, err, pkgerrors.ErrRawDataUnavailable)
		assert.Equal(t, sources.StateUnloaded, src.State())
	})

	t.Run("record without key", func(t *testing.T) {
		src := variant(t, "S1", []table.Row{{"chrom": "1"}})
		e := newEngine(t, src)

		_, err := e.Merge(ctx, src)
		assert.ErrorIs(t, err, pkgerrors.ErrKeyMissing)
	})

	t.Run("annotation failure leaves table unchanged", func(t *testing.T) {
		s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1), "ref": "G", "alt": "A"}})
		s2 := variant(t, "S2", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "1", "pos": int64(2)}}, adarFixable(t))
		e := newEngine(t, s1, s2)

		_, err := e.Merge(ctx, s1)
		require.NoError(t, err)
		before := e.Table().Clone()

		_, err = e.Merge(ctx, s2)
		var merr *pkgerrors.MergeError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, merger.StepAnnotate, merr.Step)
		assert.Equal(t, before.Rows(), e.Table().Rows())
		assert.Equal(t, before.Columns(), e.Table().Columns())
	})
}

func TestSourceNameColumnConflicts(t *testing.T) {
	ctx := context.Background()
	base := []table.Row{
		{"chrom": "1", "pos": int64(1), "ref": "G", "alt": "A"},
		{"chrom": "2", "pos": int64(1), "ref": "T", "alt": "C"},
	}

	t.Run("key column", func(t *testing.T) {
		e := newEngine(t)
		assert.ErrorIs(t, e.Register(variant(t, "pos", nil)), pkgerrors.ErrColumnConflict)
		assert.ErrorIs(t, e.Register(validation(t, "chrom", config.Configuration{}, nil)), pkgerrors.ErrColumnConflict)
		assert.Empty(t, e.Variants())
		assert.Empty(t, e.Validations())
	})

	t.Run("key column of unregistered source keeps keys intact", func(t *testing.T) {
		s1 := variant(t, "S1", base)
		e := newEngine(t, s1)
		_, err := e.Merge(ctx, s1)
		require.NoError(t, err)

		pos := variant(t, "pos", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "3", "pos": int64(7)}})
		_, err = e.Merge(ctx, pos)
		assert.ErrorIs(t, err, pkgerrors.ErrColumnConflict)
		assert.Equal(t, sources.StateUnloaded, pos.State())

		assert.Equal(t, 2, e.Table().Len())
		assert.Equal(t, int64(1), lookup(t, e, "1", int64(1))["pos"])
		assert.Equal(t, int64(1), lookup(t, e, "2", int64(1))["pos"])
		_, ok := e.Table().Lookup(table.KeyFromValues("3", int64(7)))
		assert.False(t, ok)
	})

	t.Run("own annotation", func(t *testing.T) {
		e := newEngine(t)
		err := e.Register(variant(t, "isADARFixable", nil, adarFixable(t)))
		assert.ErrorIs(t, err, pkgerrors.ErrColumnConflict)
	})

	t.Run("annotation of another source", func(t *testing.T) {
		e := newEngine(t, variant(t, "S1", nil, adarFixable(t)))
		assert.ErrorIs(t, e.Register(variant(t, "isADARFixable", nil)), pkgerrors.ErrColumnConflict)

		e = newEngine(t, variant(t, "isADARFixable", nil))
		assert.ErrorIs(t, e.Register(variant(t, "S2", nil, adarFixable(t))), pkgerrors.ErrColumnConflict)
	})

	t.Run("data column of the table", func(t *testing.T) {
		s1 := variant(t, "S1", base)
		e := newEngine(t, s1)
		_, err := e.Merge(ctx, s1)
		require.NoError(t, err)

		err = e.Register(variant(t, "ref", []table.Row{{"chrom": "9", "pos": int64(9)}}))
		var conflict *pkgerrors.ColumnConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "data column", conflict.Kind)
		assert.Equal(t, "G", lookup(t, e, "1", int64(1))["ref"])
	})

	t.Run("data column of its own records", func(t *testing.T) {
		alt := variant(t, "alt", base)
		e := newEngine(t, alt)

		_, err := e.Merge(ctx, alt)
		assert.ErrorIs(t, err, pkgerrors.ErrColumnConflict)
		assert.True(t, e.Table().Empty())
	})

	t.Run("indicator column of an existing table is reused", func(t *testing.T) {
		existing, err := table.FromRows(keyCols, []string{"chrom", "pos", "S1"}, []table.Row{
			{"chrom": "1", "pos": int64(1), "S1": int64(1)},
		})
		require.NoError(t, err)
		logging.DisableLoggingForTest(t)
		e, err := merger.New(keyCols, merger.WithTable(existing))
		require.NoError(t, err)

		s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "5", "pos": int64(5)}})
		require.NoError(t, e.Register(s1))
		result, err := e.Merge(ctx, s1)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Existing)
		assert.Equal(t, int64(1), lookup(t, e, "5", int64(5))["S1"])
	})
}

func TestMergeAllStopsAtFirstError(t *testing.T) {
	good := variant(t, "good", []table.Row{{"chrom": "1", "pos": int64(1)}})
	bad := variant(t, "bad", []table.Row{{"pos": int64(2)}})
	never := variant(t, "never", []table.Row{{"chrom": "3", "pos": int64(3)}})
	e := newEngine(t, good, bad, never)

	results, err := e.MergeAll(context.Background())
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, e.Table().Len())
	assert.Equal(t, sources.StateUnloaded, never.State())
}

func TestHooksAndProvenance(t *testing.T) {
	hooks := merger.NewHooks()
	var added, matched []string
	var merged []*merger.Result
	hooks.OnRowAdded(func(source string, _ table.Row) { added = append(added, source) })
	hooks.OnRowMatched(func(source string, key table.Key) { matched = append(matched, source+" "+key.String()) })
	hooks.OnSourceMerged(func(r *merger.Result) { merged = append(merged, r) })

	logging.DisableLoggingForTest(t)
	e, err := merger.New(keyCols, merger.WithHooks(hooks))
	require.NoError(t, err)

	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "1", "pos": int64(2)}})
	s2 := variant(t, "S2", []table.Row{{"chrom": "1", "pos": int64(2)}})
	require.NoError(t, e.Register(s1))
	require.NoError(t, e.Register(s2))

	_, err = e.MergeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S1"}, added)
	assert.Equal(t, []string{`S2 ("1", 2)`}, matched)
	require.Len(t, merged, 2)
	assert.Equal(t, "S2", merged[1].Source)

	prov := e.Provenance()
	require.Len(t, prov[`("1", 2)`], 2)
	assert.Equal(t, "S1", prov[`("1", 2)`][0].Source)
	assert.Equal(t, "S2", prov[`("1", 2)`][1].Source)

	off, err := merger.New(keyCols, merger.WithProvenance(false))
	require.NoError(t, err)
	assert.Empty(t, off.Provenance())
}

func TestValidateAll(t *testing.T) {
	ctx := context.Background()
	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}, {"chrom": "2", "pos": int64(2)}})

	coverage := config.Configuration{ValidatorName: builtin.KeyCoverage, Validator: builtin.KeyCoverageValidator}
	truth := validation(t, "truth", coverage, []table.Row{{"chrom": "2", "pos": int64(2)}})
	skipped := validation(t, "empty", config.Configuration{}, nil)

	e := newEngine(t, s1, truth, skipped)
	_, err := e.MergeAll(ctx)
	require.NoError(t, err)
	require.NoError(t, e.ValidateAll(ctx))

	assert.True(t, e.Table().HasColumn("truth"))
	assert.Equal(t, int64(0), lookup(t, e, "1", int64(1))["truth"])
	assert.Equal(t, int64(1), lookup(t, e, "2", int64(2))["truth"])
}

func TestValidateAllPropagatesFailure(t *testing.T) {
	ctx := context.Background()
	s1 := variant(t, "S1", []table.Row{{"chrom": "1", "pos": int64(1)}})

	required := config.Configuration{
		ValidatorName: builtin.RequiredAnnotations,
		Validator:     builtin.RequiredAnnotationsValidator,
		Options:       map[string]any{builtin.RequiredAnnotations: []any{"isADARFixable"}},
	}
	e := newEngine(t, s1, validation(t, "required", required, nil))
	_, err := e.MergeAll(ctx)
	require.NoError(t, err)

	err = e.ValidateAll(ctx)
	var failure *pkgerrors.ValidationFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "required", failure.Source)
}
