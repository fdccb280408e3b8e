package cli

import (
	"github.com/spf13/cobra"
)

// NewRDF2CottasCommand creates the rdf2cottas command.
func NewRDF2CottasCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rdf2cottas <rdf-file> <cottas-file> [index]",
		Short: "Convert an RDF file to a Cottas file",
		Long: `Convert an RDF file to a Cottas file sorted by index.

The input format is chosen by extension: .ttl, .nt, .nq, .trig, .rdf or .xml.
Duplicate statements are dropped. The index defaults to the configured one
(spo unless overridden); quad indexes such as gspo keep the graph column.`,
		Args: usage(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if len(args) == 3 {
				label = args[2]
			}

			res, err := rootOpts.client.RDF2Cottas(cmd.Context(), args[0], args[1], rootOpts.indexOr(label))
			if err != nil {
				return operationError("rdf2cottas", err)
			}
			return rootOpts.formatter(cmd).Result(res)
		},
	}

	return cmd
}

// NewCottas2RDFCommand creates the cottas2rdf command.
func NewCottas2RDFCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cottas2rdf <cottas-file> <rdf-file>",
		Short: "Convert a Cottas file back to RDF",
		Long: `Write the statements of a Cottas file as RDF.

The output format is chosen by extension. Triple files can be written as
.nt, .ttl, .nq or .trig; files with a graph column only as .nq or .trig.`,
		Args: usage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rootOpts.client.Cottas2RDF(cmd.Context(), args[0], args[1])
			if err != nil {
				return operationError("cottas2rdf", err)
			}
			return rootOpts.formatter(cmd).Result(res)
		},
	}

	return cmd
}
