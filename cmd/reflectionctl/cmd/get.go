package cmd

import (
	"os"

	"github.com/holmberd/go-reflectionstore/reflection"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <experiment> <id>",
		Short: "Fetch a stored reflection",
		Long: `Fetch a stored reflection and print its fields, or write the encoded
record to a file with --output.

Example:
  reflectionctl get exp1 r1 -o refl.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, reflection.Encode(entry.Reflection), 0o644)
			}
			return printReflection(cmd.OutOrStdout(), entry.Reflection)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the encoded record to this file")
	return cmd
}
