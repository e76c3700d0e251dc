// Package config implements the config command, which shows source
// configurations as resolved against their default.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/vartable/internal/appcontext"
	"github.com/agentstation/vartable/internal/cmd/output"
	"github.com/agentstation/vartable/pkg/config"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/logging"
	"github.com/agentstation/vartable/pkg/types"
)

// NewCommand creates the config command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: "management",
		Short:   "Inspect source configurations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newShowCommand(app))
	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	var (
		root string
		typ  string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the resolved configuration of a source",
		Long: `Show merges a source's config.yaml over the default configuration of its
type and prints the result. Without a name the default itself is shown.

A source whose own configuration is missing or malformed is shown with
defaulted: true, exactly as merge would use it.`,
		Example: `  vartable config show                        # The variant default
  vartable config show gnomad                 # gnomad merged over the default
  vartable config show truth --type validation
  vartable config show gnomad --raw           # The source's own document`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := types.ParseSourceType(typ)
			if !ok {
				return fmt.Errorf("%w %q: must be variant or validation", errors.ErrUnsupportedSourceType, typ)
			}
			coll, err := app.Collection(root)
			if err != nil {
				return err
			}
			resolver := config.NewResolver(coll.Registry)

			name := resolver.DefaultName()
			if len(args) == 1 {
				name = args[0]
			}

			if raw {
				doc, err := resolver.Load(name, st)
				if err != nil {
					return err
				}
				data, err := doc.YAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			cfg, err := resolver.Resolve(ctx, name, st)
			if err != nil {
				return err
			}
			if cfg.Defaulted {
				app.Printer().Warning("%s has no usable configuration of its own, showing the default", name)
			}

			format := output.Format(app.OutputFormat())
			if format == "" || format == output.FormatTable || format == output.FormatWide {
				format = output.FormatYAML
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), cfg.Summary())
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "sources directory (default from config)")
	cmd.Flags().StringVar(&typ, "type", types.SourceTypeVariant.String(), "source type (variant, validation)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the source's own document without merging")

	return cmd
}
