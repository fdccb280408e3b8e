// Package cli implements the cottas command tree.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/cottas/internal/config"
	"github.com/aleksaelezovic/cottas/pkg/cottas"
)

// RootOptions holds global flags for all commands, plus the state
// PersistentPreRunE derives from them.
type RootOptions struct {
	Config  string
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	settings config.Config
	options  cottas.Options
	client   *cottas.Client
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the cottas CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cottas",
		Short: "Convert, query and combine Cottas files",
		Long: `Cottas stores RDF triples and quads as Parquet tables with s, p, o and
an optional g column, sorted by an index such as spo or gspo.

Convert RDF to Cottas and back, search with triple patterns, merge and
subtract files, and inspect their metadata.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML config file (default $"+config.EnvVar+")")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewRDF2CottasCommand(opts))
	cmd.AddCommand(NewCottas2RDFCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCatCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))

	return cmd
}

// setup validates flags, loads configuration and builds the client.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}

	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	// Logs go to stderr so json and yaml output stay parseable.
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	o.settings = cfg
	o.options = cfg.Options(log)
	o.client = cottas.New(o.options)
	return nil
}

// indexOr returns label, or the configured default index when label is empty.
func (o *RootOptions) indexOr(label string) string {
	if label != "" {
		return label
	}
	return o.settings.Index
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// usage wraps a positional argument validator so that violations exit with
// ExitCommandError.
func usage(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "usage", err)
		}
		return nil
	}
}
