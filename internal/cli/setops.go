package cli

import (
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/cottas/pkg/cottas"
)

// setOpFlags are the flags shared by cat and diff.
type setOpFlags struct {
	output       string
	index        string
	removeInputs bool
}

func (f *setOpFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output Cottas file (required)")
	cmd.Flags().StringVarP(&f.index, "index", "i", "", "index of the output (default from config)")
	cmd.Flags().BoolVarP(&f.removeInputs, "remove-input-files", "r", false, "delete the inputs after writing the output")
	_ = cmd.MarkFlagRequired("output")
}

// NewCatCommand creates the cat command.
func NewCatCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &setOpFlags{}
	var keepGraphs bool

	cmd := &cobra.Command{
		Use:   "cat <cottas-file>... -o <output>",
		Short: "Merge Cottas files",
		Long: `Merge Cottas files into one, dropping duplicate rows.

The output holds s, p and o only; with --keep-graphs it keeps a graph column
when any input has one. An invalid index is reported and nothing is
written. The output may be one of the inputs.`,
		Args: usage(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rootOpts.options
			opts.MergeGraphs = keepGraphs
			res, err := cottas.New(opts).Cat(cmd.Context(), args, flags.output, rootOpts.indexOr(flags.index), flags.removeInputs)
			if err != nil {
				return operationError("cat", err)
			}
			return rootOpts.formatter(cmd).Result(res)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&keepGraphs, "keep-graphs", "g", false, "keep the graph column of quad inputs")
	return cmd
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &setOpFlags{}

	cmd := &cobra.Command{
		Use:   "diff <cottas-file> <subtract-file> -o <output>",
		Short: "Subtract one Cottas file from another",
		Long: `Write the rows of the first file that are absent from the second.

Rows are compared over the columns both files have. An invalid index is
reported and nothing is written.`,
		Args: usage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rootOpts.client.Diff(cmd.Context(), args[0], args[1], flags.output, rootOpts.indexOr(flags.index), flags.removeInputs)
			if err != nil {
				return operationError("diff", err)
			}
			return rootOpts.formatter(cmd).Result(res)
		},
	}

	flags.register(cmd)
	return cmd
}
