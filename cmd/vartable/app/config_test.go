package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/vartable/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("VARTABLE_SOURCES_ROOT", "")
	t.Setenv("VARTABLE_OUTPUT_PATH", "")
	t.Setenv("VARTABLE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultSourcesPath, config.SourcesRoot)
	assert.Equal(t, constants.DefaultOutputPath, config.OutputPath)
	assert.NotEmpty(t, config.LogFormat)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("VARTABLE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("VARTABLE_SOURCES_ROOT", "/data/DBs")
	t.Setenv("VARTABLE_FORMAT", "json")
	t.Setenv("VARTABLE_VERBOSE", "true")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data/DBs", config.SourcesRoot)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vartable.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources_root: ./mydbs\noutput_path: out.xlsx\n"), 0o644))

	config, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "./mydbs", config.SourcesRoot)
	assert.Equal(t, "out.xlsx", config.OutputPath)
	assert.Equal(t, path, config.ConfigFile)
}

func TestConfigReloadAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vartable.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources_root: ./other\n"), 0o644))

	config := &Config{SourcesRoot: "./DBs", Format: "table", Verbose: true}
	require.NoError(t, config.Reload(path))
	assert.Equal(t, "./other", config.SourcesRoot)

	config.UpdateFromFlags(false, true, false, "yaml", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.Quiet)
	assert.Equal(t, "yaml", config.Format)
	assert.Empty(t, config.LogLevel)
}
