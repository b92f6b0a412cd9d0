package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete <experiment> [id...]",
		Short: "Delete stored reflections",
		Long: `Delete reflections of an experiment by ID, or every reflection of the
experiment with --all.

Example:
  reflectionctl delete exp1 r1 r2
  reflectionctl delete exp1 --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			experimentId, ids := args[0], args[1:]
			if all == (len(ids) > 0) {
				return errors.New("give either reflection IDs or --all")
			}
			store, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if all {
				n, err := store.DeleteExperiment(cmd.Context(), experimentId)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d reflections\n", n)
				return nil
			}
			return store.Delete(cmd.Context(), experimentId, ids...)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Delete every reflection of the experiment")
	return cmd
}
