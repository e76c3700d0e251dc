package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		env      string
		expected string
	}{
		{name: "default level", config: &Config{}, expected: "info"},
		{name: "verbose sets debug", config: &Config{Verbose: true}, expected: "debug"},
		{name: "quiet sets warn", config: &Config{Quiet: true}, expected: "warn"},
		{name: "explicit level overrides verbose", config: &Config{LogLevel: "error", Verbose: true}, expected: "error"},
		{name: "explicit level overrides quiet", config: &Config{LogLevel: "trace", Quiet: true}, expected: "trace"},
		{name: "verbose and quiet prefers quiet", config: &Config{Verbose: true, Quiet: true}, expected: "warn"},
		{name: "invalid level falls back to info", config: &Config{LogLevel: "loud"}, expected: "info"},
		{name: "LOG_LEVEL env", config: &Config{}, env: "debug", expected: "debug"},
		{name: "flags beat LOG_LEVEL", config: &Config{Quiet: true}, env: "debug", expected: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			assert.Equal(t, tt.expected, determineLogLevel(tt.config))
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, "warn", logger.GetLevel().String())
}
