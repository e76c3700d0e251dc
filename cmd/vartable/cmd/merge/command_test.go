package merge_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vartable/cmd/vartable/cmd/merge"
	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/provenance"
	"github.com/agentstation/vartable/pkg/tablefile"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sourcesDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "variants", "default", "config.yaml"), `
key_cols: [chrom, pos]
pre_processor: standard
options:
  columns:
    lowercase: true
    types: {pos: int}
annotations:
  isADARFixable:
    type: bool
    compute: adar_fixable
`)
	write(t, filepath.Join(root, "variants", "gnomad", "variants_table.csv"),
		"CHROM,POS,REF,ALT\n1,100,G,A\n1,200,T,C\n")
	write(t, filepath.Join(root, "variants", "clinvar", "variants_table.csv"),
		"CHROM,POS,REF,ALT\n1,100,T,T\n2,300,G,A\n")
	return root
}

func execute(t *testing.T, app appcontext.Interface, args ...string) error {
	t.Helper()
	cmd := merge.NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestMergeCommand(t *testing.T) {
	root := sourcesDir(t)
	outDir := t.TempDir()
	out := filepath.Join(outDir, "table.csv")
	prov := filepath.Join(outDir, "provenance.yaml")
	rep := filepath.Join(outDir, "report.md")

	var buf bytes.Buffer
	app := &appcontext.Mock{Root: root, Format: "json", Out: &buf}

	err := execute(t, app, "--out", out, "--provenance", prov, "--report", rep)
	require.NoError(t, err)

	data, err := tablefile.Read(out)
	require.NoError(t, err)
	assert.Len(t, data.Rows(), 3)
	assert.Subset(t, data.Columns(), []string{"chrom", "pos", "clinvar", "gnomad", "isADARFixable"})

	file, err := provenance.Load(prov)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Provenance)

	report, err := os.ReadFile(rep)
	require.NoError(t, err)
	assert.Contains(t, string(report), "clinvar")

	assert.Contains(t, buf.String(), "Wrote "+out)
	assert.Contains(t, buf.String(), "2 sources merged into 3 rows")
}

func TestMergeCommandOutputPathFromConfig(t *testing.T) {
	root := sourcesDir(t)
	out := filepath.Join(t.TempDir(), "configured.tsv")
	app := &appcontext.Mock{Root: root, Format: "yaml", Output: out}

	require.NoError(t, execute(t, app, "--source", "gnomad"))

	data, err := tablefile.Read(out)
	require.NoError(t, err)
	assert.Len(t, data.Rows(), 2)
	assert.NotContains(t, data.Columns(), "clinvar")
}

func TestMergeCommandUnknownSource(t *testing.T) {
	root := sourcesDir(t)
	out := filepath.Join(t.TempDir(), "table.csv")
	app := &appcontext.Mock{Root: root, Format: "json"}

	err := execute(t, app, "--out", out, "--source", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRawDataUnavailable)
	assert.NoFileExists(t, out)
}

func TestMergeCommandRejectsArgs(t *testing.T) {
	app := &appcontext.Mock{Root: t.TempDir()}
	assert.Error(t, execute(t, app, "extra"))
}
