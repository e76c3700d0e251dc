package printer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/vartable/internal/cmd/printer"
)

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := printer.New(&out, &errOut, true)

	p.Success("merged %d sources", 2)
	p.Warning("source %s defaulted\n", "gnomad")
	p.Info("plain")
	p.Header("Sources")

	assert.Equal(t, "✓ merged 2 sources\n⚠️  source gnomad defaulted\nplain\nSources\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPrinterError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := printer.New(&out, &errOut, true)

	err := p.Error("Merge failed", "source gnomad has no data", []string{"add variants_table.csv", "pass --source"})
	assert.EqualError(t, err, "Merge failed")
	assert.Contains(t, errOut.String(), "Merge failed\n\nsource gnomad has no data\n")
	assert.Contains(t, errOut.String(), "  2. pass --source\n")
	assert.Empty(t, out.String())
}
