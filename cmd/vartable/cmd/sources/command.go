// Package sources implements the sources command, which lists the sources
// discovered under a sources directory.
package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/internal/cmd/output"
	"github.com/agentstation/vartable/internal/cmd/table"
	"github.com/agentstation/vartable/pkg/collection"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/types"
)

// NewCommand creates the sources command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		root string
		typ  string
	)

	cmd := &cobra.Command{
		Use:     "sources",
		GroupID: "core",
		Short:   "List discovered sources",
		Aliases: []string{"ls"},
		Example: `  vartable sources                   # List every source under the configured root
  vartable sources --type validation # Only validation sources
  vartable sources -o json           # Machine-readable output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coll, err := app.Collection(root)
			if err != nil {
				return err
			}
			entries, err := entriesOf(coll, typ)
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			return formatter.Format(cmd.OutOrStdout(), table.EntriesToTableData(entries))
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "sources directory (default from config)")
	cmd.Flags().StringVar(&typ, "type", "", "only list sources of this type (variant, validation)")

	return cmd
}

func entriesOf(coll *collection.Collection, typ string) ([]collection.Entry, error) {
	if typ != "" {
		st, ok := types.ParseSourceType(typ)
		if !ok {
			return nil, fmt.Errorf("%w %q: must be variant or validation", errors.ErrUnsupportedSourceType, typ)
		}
		return coll.Entries(st), nil
	}
	var entries []collection.Entry
	for _, st := range types.SourceTypes() {
		entries = append(entries, coll.Entries(st)...)
	}
	return entries, nil
}
