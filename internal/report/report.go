// Package report renders a markdown summary of a merge run.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/vartable"
	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/provenance"
)

// Report is the data rendered by Write.
type Report struct {
	// Title defaults to "Merge report".
	Title string
	// Root is the sources directory of the run.
	Root string
	// Output is the path the table was exported to, if any.
	Output string

	Result     *vartable.Result
	Provenance *provenance.Report
}

// Write renders r as markdown to w.
func Write(w io.Writer, r *Report) error {
	if r == nil || r.Result == nil {
		return errors.New("report has no run result")
	}
	title := r.Title
	if title == "" {
		title = "Merge report"
	}
	res := r.Result

	doc := md.NewMarkdown(w).
		H1(title).
		PlainTextf("Generated %s.", res.StartTime.Time.Format(constants.TimeFormatHuman)).LF().LF()

	summary := []string{
		fmt.Sprintf("%s %s", md.Bold("Key columns:"), md.Code(strings.Join(res.KeyCols, ", "))),
		fmt.Sprintf("%s %d rows x %d columns", md.Bold("Table:"), res.Rows, res.Columns),
		fmt.Sprintf("%s %v", md.Bold("Duration:"), res.Duration.Round(time.Millisecond)),
	}
	if r.Root != "" {
		summary = append(summary, fmt.Sprintf("%s %s", md.Bold("Sources:"), md.Code(r.Root)))
	}
	if r.Output != "" {
		summary = append(summary, fmt.Sprintf("%s %s", md.Bold("Output:"), md.Code(r.Output)))
	}
	doc.H2("Summary").BulletList(summary...)

	rows := make([][]string, 0, len(res.Sources))
	for _, s := range res.Sources {
		rows = append(rows, []string{
			s.Source,
			fmt.Sprint(s.Records()),
			fmt.Sprint(s.Added),
			fmt.Sprint(s.Existing),
			fmt.Sprint(s.Duplicates),
			strings.Join(s.ColumnsAdded, ", "),
		})
	}
	doc.H2("Sources").Table(md.TableSet{
		Header: []string{"Source", "Records", "Added", "Matched", "Duplicates", "New columns"},
		Rows:   rows,
	})

	if len(res.Validated) > 0 {
		doc.H2("Validation").BulletList(res.Validated...)
	}

	if len(res.Defaulted) > 0 {
		doc.H2("Default configurations").
			PlainText("These sources were resolved to the default configuration:").LF().LF().
			BulletList(res.Defaulted...)
	}

	if p := r.Provenance; p != nil && p.Rows > 0 {
		provRows := make([][]string, 0, len(p.Sources))
		for _, name := range p.SourceNames() {
			c := p.Sources[name]
			provRows = append(provRows, []string{name, fmt.Sprint(c.Added), fmt.Sprint(c.Matched), fmt.Sprint(c.Total())})
		}
		doc.H2("Provenance").
			PlainTextf("%d rows tracked, %d contributed by more than one source.", p.Rows, p.Shared).LF().LF().
			Table(md.TableSet{
				Header: []string{"Source", "Added", "Matched", "Total"},
				Rows:   provRows,
			})
	}

	return doc.Build()
}

// Save renders r to path.
func Save(path string, r *Report) error {
	var b strings.Builder
	if err := Write(&b, r); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return errors.WrapIO("write", path, os.WriteFile(path, []byte(b.String()), constants.FilePermissions))
}
