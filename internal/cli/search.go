package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <cottas-file> <pattern>",
		Short: "Find the statements matching a triple or quad pattern",
		Long: `Print every row of a Cottas file matching a pattern.

A pattern has three or four whitespace separated terms in N-Triples syntax.
Terms starting with ? or $ are variables and match anything:

  cottas search data.cottas '?s <http://xmlns.com/foaf/0.1/knows> ?o'
  cottas search data.cottas '?s ?p "Dave O'"'"'Brien" <http://example.org/g1>'`,
		Args: usage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if formatter.Verbose {
				if err := reportPlan(cmd, rootOpts, formatter, args[0], args[1]); err != nil {
					return err
				}
			}

			rows, err := rootOpts.client.Search(cmd.Context(), args[0], args[1])
			if err != nil {
				return operationError("search", err)
			}
			if rows == nil {
				rows = [][]string{}
			}

			return formatter.Emit(rows, func(w io.Writer) error {
				for _, row := range rows {
					if _, err := fmt.Fprintln(w, strings.Join(row, " ")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	return cmd
}

// reportPlan prints how the file's index lines up with the pattern.
func reportPlan(cmd *cobra.Command, rootOpts *RootOptions, f *OutputFormatter, path, patternText string) error {
	plan, err := rootOpts.client.Plan(cmd.Context(), path, patternText)
	if err != nil {
		return operationError("search", err)
	}

	declared := plan.Declared.Index
	if declared == "" {
		declared = "(none)"
	}
	f.VerboseLog("pattern: %s", plan.Pattern)
	f.VerboseLog("declared index: %s (%d bound leading columns)", declared, plan.Declared.Prefix)
	f.VerboseLog("suggested index: %s (%d bound leading columns)", plan.Suggested.Index, plan.Suggested.Prefix)
	for _, c := range plan.Ranking {
		f.VerboseLog("  %-4s %d", c.Index, c.Prefix)
	}
	return nil
}
