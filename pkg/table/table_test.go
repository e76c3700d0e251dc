package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/table"
)

func TestNewTable(t *testing.T) {
	tbl := table.New("chrom", "pos")

	assert.Equal(t, []string{"chrom", "pos"}, tbl.KeyCols())
	assert.Equal(t, []string{"chrom", "pos"}, tbl.Columns())
	assert.True(t, tbl.Empty())
	assert.Equal(t, 0, tbl.Len())
}

func TestAppendAndLookup(t *testing.T) {
	tbl := table.New("chrom", "pos")
	require.NoError(t, tbl.Append(
		table.Row{"chrom": "1", "pos": int64(100), "ref": "G"},
		table.Row{"chrom": "1", "pos": int64(200), "ref": "T"},
	))

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"chrom", "pos", "ref"}, tbl.Columns())

	row, ok := tbl.Lookup(table.KeyFromValues("1", int64(200)))
	require.True(t, ok)
	assert.Equal(t, "T", row["ref"])

	_, ok = tbl.Lookup(table.KeyFromValues("1", "200"))
	assert.False(t, ok, "keys compare by typed value")
}

func TestAppendRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		first []table.Row
		rows  []table.Row
	}{
		{
			name:  "existing key",
			first: []table.Row{{"chrom": "1", "pos": int64(100)}},
			rows:  []table.Row{{"chrom": "1", "pos": int64(100)}},
		},
		{
			name: "duplicate within call",
			rows: []table.Row{
				{"chrom": "2", "pos": int64(5)},
				{"chrom": "2", "pos": int64(5)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New("chrom", "pos")
			require.NoError(t, tbl.Append(tt.first...))
			before := tbl.Len()

			err := tbl.Append(tt.rows...)
			assert.ErrorIs(t, err, errors.ErrDuplicateKey)
			assert.Equal(t, before, tbl.Len(), "nothing is appended on failure")
		})
	}
}

func TestAppendMissingKey(t *testing.T) {
	tbl := table.New("chrom", "pos")
	err := tbl.Append(table.Row{"chrom": "1"})

	assert.ErrorIs(t, err, errors.ErrKeyMissing)
	var keyErr *errors.KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "pos", keyErr.Column)
}

func TestAddColumnBackfills(t *testing.T) {
	tbl := table.New("id")
	require.NoError(t, tbl.Append(table.Row{"id": "a"}, table.Row{"id": "b"}))

	assert.True(t, tbl.AddColumn("gnomad", table.FillValue))
	assert.False(t, tbl.AddColumn("gnomad", int64(1)), "existing column is kept")

	for _, row := range tbl.Rows() {
		assert.Equal(t, int64(0), row["gnomad"])
	}
}

func TestAppendFillsMissingColumns(t *testing.T) {
	tbl := table.New("id")
	tbl.AddColumn("s1", table.FillValue)
	require.NoError(t, tbl.Append(table.Row{"id": "a", "s1": int64(1)}))
	require.NoError(t, tbl.Append(table.Row{"id": "b", "extra": "x"}))

	a, _ := tbl.Lookup(table.KeyFromValues("a"))
	b, _ := tbl.Lookup(table.KeyFromValues("b"))
	assert.Equal(t, int64(0), a["extra"])
	assert.Equal(t, int64(0), b["s1"])
	assert.Equal(t, "x", b["extra"])
}

func TestReconcile(t *testing.T) {
	tbl := table.New("id")
	tbl.AddColumn("s1", table.FillValue)
	require.NoError(t, tbl.Append(table.Row{"id": "a", "s1": int64(1)}))

	batch := table.Batch{{"id": "b", "qual": 30.5}}
	added := tbl.Reconcile(batch)

	assert.Equal(t, []string{"qual"}, added)
	assert.Equal(t, int64(0), batch[0]["s1"])
	row, _ := tbl.Lookup(table.KeyFromValues("a"))
	assert.Equal(t, int64(0), row["qual"])
}

func TestSet(t *testing.T) {
	tbl := table.New("id")
	require.NoError(t, tbl.Append(table.Row{"id": "a"}))

	key := table.KeyFromValues("a")
	require.NoError(t, tbl.Set(key, "s2", int64(1)))
	row, _ := tbl.Lookup(key)
	assert.Equal(t, int64(1), row["s2"])
	assert.True(t, tbl.HasColumn("s2"))

	err := tbl.Set(table.KeyFromValues("zzz"), "s2", int64(1))
	assert.ErrorIs(t, err, errors.ErrRowNotFound)
}

func TestClone(t *testing.T) {
	tbl := table.New("id")
	require.NoError(t, tbl.Append(table.Row{"id": "a", "v": int64(1)}))

	c := tbl.Clone()
	require.NoError(t, c.Set(table.KeyFromValues("a"), "v", int64(2)))
	require.NoError(t, c.Append(table.Row{"id": "b"}))

	row, _ := tbl.Lookup(table.KeyFromValues("a"))
	assert.Equal(t, int64(1), row["v"])
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 2, c.Len())
}

func TestFromRows(t *testing.T) {
	tbl, err := table.FromRows([]string{"id"}, []string{"id", "s1", "note"}, []table.Row{
		{"id": "a", "s1": int64(1)},
		{"id": "b", "note": "n"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "s1", "note"}, tbl.Columns())
	a := tbl.Row(0)
	assert.Equal(t, int64(0), a["note"])

	_, err = table.FromRows([]string{"id"}, nil, []table.Row{{"id": "a"}, {"id": "a"}})
	assert.ErrorIs(t, err, errors.ErrDuplicateKey)
}

func TestKey(t *testing.T) {
	k1 := table.KeyFromValues("1", int64(100))
	k2 := table.KeyFromValues("1", int64(100))
	k3 := table.KeyFromValues(int64(100), "1")

	assert.True(t, k1.Equal(k2))
	assert.False(t, k1.Equal(k3), "order matters")
	assert.Equal(t, `("1", 100)`, k1.String())
	assert.Equal(t, []any{"1", int64(100)}, k1.Values())
}

func TestKeyPartsDoNotBleed(t *testing.T) {
	tests := []struct {
		name string
		a, b table.Key
	}{
		{"separator inside value", table.KeyFromValues("a\x1fstring:b", "c"), table.KeyFromValues("a", "b\x1fstring:c")},
		{"split point moves", table.KeyFromValues("ab", "c"), table.KeyFromValues("a", "bc")},
		{"length digits inside value", table.KeyFromValues("8:string:a", "b"), table.KeyFromValues("", "a")},
		{"arity differs", table.KeyFromValues("a"), table.KeyFromValues("a", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.a.Equal(tt.b))
			assert.NotEqual(t, tt.a.ID(), tt.b.ID())
		})
	}
}

func TestBatchColumns(t *testing.T) {
	b := table.Batch{
		{"pos": int64(1), "chrom": "1"},
		{"chrom": "2", "alt": "A"},
	}
	assert.Equal(t, []string{"chrom", "pos", "alt"}, b.Columns())

	c := b.Clone()
	c.Set("flag", true)
	assert.False(t, b[0].Has("flag"))
	assert.True(t, c[1].Has("flag"))
}
