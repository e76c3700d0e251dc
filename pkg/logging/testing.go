package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger is a logger that captures its JSON output for assertions.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger creates a trace level logger writing to an in-memory buffer.
// The global level is lowered for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	buf := &bytes.Buffer{}
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(oldLevel)
	})

	logger := zerolog.New(buf).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Logger()

	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns the captured log output.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines returns the captured entries, one per line.
func (tl *TestLogger) Lines() []string {
	output := strings.TrimSpace(tl.Output())
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// Contains reports whether the output contains substr.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// ContainsAll reports whether the output contains every substr.
func (tl *TestLogger) ContainsAll(substrs ...string) bool {
	for _, substr := range substrs {
		if !tl.Contains(substr) {
			return false
		}
	}
	return true
}

// Count returns the number of captured entries.
func (tl *TestLogger) Count() int {
	return len(tl.Lines())
}

// Clear discards the captured output.
func (tl *TestLogger) Clear() {
	tl.Buffer.Reset()
}

// AssertContains fails the test if the output does not contain substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !tl.Contains(substr) {
		t.Errorf("Log output does not contain %q\nOutput:\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails the test if the output contains substr.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if tl.Contains(substr) {
		t.Errorf("Log output should not contain %q\nOutput:\n%s", substr, tl.Output())
	}
}

// CaptureLoggingForTest installs a TestLogger as the default logger until the test ends.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()

	original := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() {
		SetDefault(original)
	})
	return tl
}

// DisableLoggingForTest silences the default logger until the test ends.
func DisableLoggingForTest(t testing.TB) {
	t.Helper()

	original := *Default()
	SetDefault(zerolog.Nop())
	t.Cleanup(func() {
		SetDefault(original)
	})
}
