package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/vartable/cmd/vartable/cmd/config"
	"github.com/agentstation/vartable/cmd/vartable/cmd/merge"
	"github.com/agentstation/vartable/cmd/vartable/cmd/sources"
	"github.com/agentstation/vartable/cmd/vartable/cmd/version"
	"github.com/agentstation/vartable/internal/cmd/output"
	"github.com/agentstation/vartable/pkg/logging"
)

// Execute runs the vartable CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// globalFlags holds the parsed persistent flags.
type globalFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "vartable",
		Short:   "Consolidated variant table builder",
		Version: a.version,
		Long: `vartable merges variant sources into one consolidated table keyed by
a configurable tuple of key columns (for example chrom and pos).

Each source lives in its own directory with a raw data file and an optional
config.yaml that overrides parts of the shared default configuration.
Every source gets a 0/1 indicator column, annotations are computed on the
rows a source inserts, and validation sources run over the final table.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.vartable.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml, wide")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("vartable {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, flags *globalFlags) error {
	if flags.configFile != "" {
		if err := a.config.Reload(flags.configFile); err != nil {
			return err
		}
	}
	if _, err := output.ParseFormat(flags.format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(sources.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(config.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
