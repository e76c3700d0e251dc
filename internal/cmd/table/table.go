// Package table converts vartable values into rows for terminal output.
package table

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/vartable/pkg/collection"
	"github.com/agentstation/vartable/pkg/merger"
	"github.com/agentstation/vartable/pkg/provenance"
	vt "github.com/agentstation/vartable/pkg/table"
)

// Align is the alignment of a column.
type Align int

// Column alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align

	// Narrow limits the columns shown unless wide output is requested.
	// Zero shows every column.
	Narrow int

	// Source is the structured value the table was built from, used for
	// json and yaml output.
	Source any
}

// EntryView is the serialisable view of a collection entry.
type EntryView struct {
	Type   string `json:"type" yaml:"type"`
	Name   string `json:"name" yaml:"name"`
	Config string `json:"config" yaml:"config"`
	Data   string `json:"data" yaml:"data"`
	Dir    string `json:"dir" yaml:"dir"`
}

// EntriesToTableData renders collection entries. Defaults are listed with
// their config state and no data.
func EntriesToTableData(entries []collection.Entry) Data {
	views := make([]EntryView, 0, len(entries))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		cfg := "default"
		if e.HasConfig() {
			cfg = "own"
		}
		data := e.DataPath
		if data == "" && !e.IsDefault() {
			data = "(missing)"
		}
		view := EntryView{Type: e.Type.String(), Name: e.Name, Config: cfg, Data: data, Dir: e.Dir}
		views = append(views, view)
		rows = append(rows, []string{view.Type, view.Name, view.Config, view.Data, view.Dir})
	}
	return Data{
		Headers: []string{"Type", "Name", "Config", "Data", "Dir"},
		Rows:    rows,
		Narrow:  4,
		Source:  views,
	}
}

// ResultView is the serialisable view of a merge result.
type ResultView struct {
	Source       string   `json:"source" yaml:"source"`
	Records      int      `json:"records" yaml:"records"`
	Added        int      `json:"added" yaml:"added"`
	Matched      int      `json:"matched" yaml:"matched"`
	Duplicates   int      `json:"duplicates" yaml:"duplicates"`
	ColumnsAdded []string `json:"columns_added,omitempty" yaml:"columns_added,omitempty"`
	Duration     string   `json:"duration" yaml:"duration"`
}

// ResultsToTableData renders per-source merge results.
func ResultsToTableData(results []*merger.Result) Data {
	views := make([]ResultView, 0, len(results))
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		view := ResultView{
			Source:       r.Source,
			Records:      r.Records(),
			Added:        r.Added,
			Matched:      r.Existing,
			Duplicates:   r.Duplicates,
			ColumnsAdded: r.ColumnsAdded,
			Duration:     r.Duration.Round(time.Millisecond).String(),
		}
		views = append(views, view)
		rows = append(rows, []string{
			view.Source,
			fmt.Sprint(view.Records),
			fmt.Sprint(view.Added),
			fmt.Sprint(view.Matched),
			fmt.Sprint(view.Duplicates),
			view.Duration,
			strings.Join(view.ColumnsAdded, ", "),
		})
	}
	return Data{
		Headers:         []string{"Source", "Records", "Added", "Matched", "Duplicates", "Duration", "New Columns"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
		Narrow:          6,
		Source:          views,
	}
}

// RowsToTableData renders up to limit rows of t. A limit of zero renders
// every row.
func RowsToTableData(t *vt.Table, limit int) Data {
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	records := make([]vt.Row, n)
	for i := 0; i < n; i++ {
		row := t.Row(i)
		records[i] = row
		cells := make([]string, 0, len(t.Columns()))
		for _, col := range t.Columns() {
			cells = append(cells, vt.FormatValue(row[col]))
		}
		rows[i] = cells
	}
	return Data{Headers: t.Columns(), Rows: rows, Source: records}
}

// ProvenanceToTableData renders the provenance map, one line per
// contribution, rows in key order.
func ProvenanceToTableData(m provenance.Map) Data {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rows [][]string
	for _, key := range keys {
		for i, p := range m[key] {
			label := ""
			if i == 0 {
				label = key
			}
			rows = append(rows, []string{label, p.Source, string(p.Action), formatTimestamp(p.Timestamp.Time)})
		}
	}
	return Data{
		Headers: []string{"Key", "Source", "Action", "When"},
		Rows:    rows,
		Source:  m,
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
