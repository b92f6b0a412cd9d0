package cmd

import (
	"fmt"

	"github.com/holmberd/go-reflectionstore/reflectionstore"
	"github.com/spf13/cobra"
)

func newPutCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "put <experiment> <file>",
		Short: "Store an encoded reflection file under an experiment",
		Long: `Store an encoded reflection under an experiment and print its ID.
A KSUID is generated unless --id is given.

Example:
  reflectionctl put exp1 refl.bin --id r1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readReflection(args[1])
			if err != nil {
				return err
			}
			entry, err := reflectionstore.NewEntry(args[0], id, r)
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Put(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Reflection ID")
	return cmd
}
