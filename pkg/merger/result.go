package merger

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"
)

// Result describes the outcome of merging one source.
type Result struct {
	// Source is the merged source's name.
	Source string

	// Existing counts records that matched rows already in the table.
	Existing int
	// Added counts records inserted as new rows.
	Added int
	// Duplicates counts records whose key repeated an earlier record of the same source.
	Duplicates int

	// ColumnsAdded lists the columns this merge added to the table.
	ColumnsAdded []string

	StartTime utc.Time
	EndTime   utc.Time
	Duration  time.Duration
}

func newResult(source string) *Result {
	return &Result{Source: source, StartTime: utc.Now()}
}

// Records returns the number of records the source provided.
func (r *Result) Records() int {
	return r.Existing + r.Added + r.Duplicates
}

func (r *Result) finalize() {
	r.EndTime = utc.Now()
	r.Duration = r.EndTime.Time.Sub(r.StartTime.Time)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%s: %d added, %d matched", r.Source, r.Added, r.Existing)
	if r.Duplicates > 0 {
		s += fmt.Sprintf(", %d duplicate", r.Duplicates)
	}
	if len(r.ColumnsAdded) > 0 {
		s += fmt.Sprintf(", %d new columns", len(r.ColumnsAdded))
	}
	return s
}
