// Package merge implements the merge command, which builds the consolidated
// table from a sources directory and exports it.
package merge

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/vartable"
	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/internal/cmd/output"
	"github.com/agentstation/vartable/internal/cmd/table"
	"github.com/agentstation/vartable/internal/report"
	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/provenance"
	"github.com/agentstation/vartable/pkg/tablefile"
)

// Flags holds the merge command flags.
type Flags struct {
	Root       string
	Keys       []string
	Sources    []string
	Existing   string
	Out        string
	Sheet      string
	Provenance string
	Report     string
	Preview    int
}

// NewCommand creates the merge command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge variant sources into the consolidated table",
		Long: `Merge loads every variant source under the sources directory, upserts
its records into one table keyed by the key columns, computes annotations
on newly inserted rows and runs the validation sources over the result.

The table is written to --out; the format follows the file extension
(.csv, .tsv or .xlsx).`,
		Example: `  vartable merge                                  # Merge ./DBs into extended_table.csv
  vartable merge --root data --out table.xlsx     # Custom root, Excel output
  vartable merge --source gnomad --source clinvar # Merge selected sources in order
  vartable merge --key chrom,pos,alt              # Override the key columns
  vartable merge --table previous.csv             # Extend an existing table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Root, "root", "", "sources directory (default from config)")
	cmd.Flags().StringSliceVar(&flags.Keys, "key", nil, "key columns, overriding the default configuration")
	cmd.Flags().StringArrayVar(&flags.Sources, "source", nil, "variant source to merge, repeatable; order is merge order")
	cmd.Flags().StringVar(&flags.Existing, "table", "", "existing table to extend")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output table path (default from config, then "+constants.DefaultOutputPath+")")
	cmd.Flags().StringVar(&flags.Sheet, "sheet", "", "sheet name for xlsx output")
	cmd.Flags().StringVar(&flags.Provenance, "provenance", "", "write row provenance to this yaml file")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a markdown run report to this file")
	cmd.Flags().IntVar(&flags.Preview, "preview", 0, "print the first N rows of the table")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	p := app.Printer()
	app.Logger().Debug().Stringer("flags", flags).Msg("starting merge")

	if flags.Out == "" {
		flags.Out = app.OutputPath()
	}
	if flags.Out == "" {
		flags.Out = constants.DefaultOutputPath
	}

	client, err := app.Client(clientOptions(flags)...)
	if err != nil {
		return err
	}

	result, err := client.Run(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", p.Error("Merge failed", err.Error(), []string{
			"Check that every source directory has a variants_table file",
			"Run 'vartable sources' to list what was discovered",
			"Run 'vartable config show <name>' to inspect a source configuration",
		}), err)
	}

	for _, name := range result.Defaulted {
		p.Warning("%s fell back to the default configuration", name)
	}

	formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
	if err := formatter.Format(cmd.OutOrStdout(), table.ResultsToTableData(result.Sources)); err != nil {
		return err
	}

	if err := client.Save(flags.Out, saveOptions(flags)...); err != nil {
		return err
	}
	p.Success("Wrote %s", flags.Out)

	var prov *provenance.Report
	if flags.Provenance != "" || flags.Report != "" {
		prov = provenance.GenerateReport(client.Provenance())
	}
	if flags.Provenance != "" {
		if err := client.SaveProvenance(flags.Provenance); err != nil {
			return err
		}
		p.Success("Wrote provenance to %s", flags.Provenance)
	}
	if flags.Report != "" {
		root := flags.Root
		if root == "" {
			root = app.SourcesRoot()
		}
		r := &report.Report{Root: root, Output: flags.Out, Result: result, Provenance: prov}
		if err := report.Save(flags.Report, r); err != nil {
			return err
		}
		p.Success("Wrote report to %s", flags.Report)
	}

	if flags.Preview > 0 {
		p.Header("Preview")
		if err := formatter.Format(cmd.OutOrStdout(), table.RowsToTableData(client.Table(), flags.Preview)); err != nil {
			return err
		}
	}

	p.Info("%s", result.Summary())
	return nil
}

func clientOptions(flags *Flags) []vartable.Option {
	var opts []vartable.Option
	if flags.Root != "" {
		opts = append(opts, vartable.WithRoot(flags.Root))
	}
	if keys := trimAll(flags.Keys); len(keys) > 0 {
		opts = append(opts, vartable.WithKeyCols(keys...))
	}
	if len(flags.Sources) > 0 {
		opts = append(opts, vartable.WithSources(flags.Sources...))
	}
	if flags.Existing != "" {
		opts = append(opts, vartable.WithExistingTable(flags.Existing))
	}
	return opts
}

func saveOptions(flags *Flags) []tablefile.Option {
	if flags.Sheet == "" {
		return nil
	}
	return []tablefile.Option{tablefile.WithSheet(flags.Sheet)}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// String renders the flags for debug logging.
func (f *Flags) String() string {
	return fmt.Sprintf("root=%q keys=%v sources=%v out=%q", f.Root, f.Keys, f.Sources, f.Out)
}
