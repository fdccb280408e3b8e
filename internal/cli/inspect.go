package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/cottas/pkg/cottas"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <cottas-file>",
		Short: "Describe a Cottas file",
		Long: `Print the index, row and row group counts, distinct terms, size,
compression and modification time of a Cottas file.`,
		Args: usage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := rootOpts.client.Info(cmd.Context(), args[0])
			if err != nil {
				return operationError("info", err)
			}
			return rootOpts.formatter(cmd).Emit(info, func(w io.Writer) error {
				renderInfo(w, info)
				return nil
			})
		},
	}

	return cmd
}

// renderInfo prints info as a two column table.
func renderInfo(w io.Writer, info *cottas.Info) {
	table := tablewriter.NewTable(w)
	table.Header([]string{"property", "value"})

	rows := [][]string{
		{"index", info.Index},
		{"triples", strconv.FormatInt(info.Triples, 10)},
		{"triples_groups", strconv.FormatInt(info.TriplesGroups, 10)},
		{"properties", strconv.FormatInt(info.Properties, 10)},
		{"distinct_subjects", strconv.FormatInt(info.DistinctSubjects, 10)},
		{"distinct_objects", strconv.FormatInt(info.DistinctObjects, 10)},
		{"issued", info.Issued},
		{"size_mb", strconv.FormatFloat(info.SizeMB, 'f', -1, 64)},
		{"compression", info.Compression},
		{"quads", strconv.FormatBool(info.Quads)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <cottas-file>",
		Short: "Check that a file has a valid Cottas layout",
		Long: `Print true when the file has s, p and o columns and no columns other
than s, p, o and g, and false otherwise. An invalid layout is not an error:
the command exits 0 either way.`,
		Args: usage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rootOpts.client.Verify(cmd.Context(), args[0])
			if err != nil {
				return operationError("verify", err)
			}

			return rootOpts.formatter(cmd).Emit(map[string]bool{"valid": ok}, func(w io.Writer) error {
				verdict := color.RedString("false")
				if ok {
					verdict = color.GreenString("true")
				}
				_, err := fmt.Fprintln(w, verdict)
				return err
			})
		},
	}

	return cmd
}
