package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vartable/cmd/vartable/cmd/config"
	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/pkg/errors"
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
annotations:
  isADARFixable:
    type: bool
    compute: adar_fixable
`)
	write(t, filepath.Join(root, "variants", "gnomad", "config.yaml"), "description: gnomAD exomes\n")
	write(t, filepath.Join(root, "variants", "broken", "config.yaml"), "key_cols: [chrom\n")
	write(t, filepath.Join(root, "validation", "default", "config.yaml"), "pre_processor: standard\nvalidator: key_coverage\n")
	return root
}

func show(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &appcontext.Mock{Root: sourcesDir(t), Format: format, Out: &out}
	cmd := config.NewCommand(app)
	cmd.SetArgs(append([]string{"show"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []string
		contains []string
	}{
		{
			name:     "default",
			contains: []string{"name: default", "key_cols:", "isADARFixable", "defaulted: false"},
		},
		{
			name:     "merged over default",
			args:     []string{"gnomad"},
			contains: []string{"name: gnomad", "description: gnomAD exomes", "pre_processor: standard", "adar_fixable"},
		},
		{
			name:     "malformed falls back",
			args:     []string{"broken"},
			contains: []string{"defaulted: true", "no usable configuration"},
		},
		{
			name:     "validation type",
			args:     []string{"--type", "validation"},
			contains: []string{"type: validation", "validator: key_coverage"},
		},
		{
			name:     "json",
			format:   "json",
			args:     []string{"gnomad"},
			contains: []string{`"description": "gnomAD exomes"`},
		},
		{
			name:     "raw document",
			args:     []string{"gnomad", "--raw"},
			contains: []string{"description: gnomAD exomes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := show(t, tt.format, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestConfigShowErrors(t *testing.T) {
	_, err := show(t, "", "--type", "bogus")
	assert.ErrorIs(t, err, errors.ErrUnsupportedSourceType)

	_, err = show(t, "", "clinvar", "--raw")
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
}
