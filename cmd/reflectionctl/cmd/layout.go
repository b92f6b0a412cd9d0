package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/holmberd/go-reflectionstore/reflection"
	"github.com/spf13/cobra"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the fixed-size part of the record layout",
		Long: `Print the byte offset and size of every fixed-size field of a version 1
reflection record. Profile arrays follow the fixed part.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tOFFSET\tSIZE")
			for _, span := range reflection.Layout() {
				fmt.Fprintf(w, "%s\t%d\t%d\n", span.Name, span.Offset, span.Size)
			}
			fmt.Fprintf(w, "total\t\t%d\n", reflection.FixedSize())
			return w.Flush()
		},
	}
}
