// Package cmd implements the reflectionctl commands.
package cmd

import (
	"fmt"

	"github.com/holmberd/go-reflectionstore/config"
	"github.com/holmberd/go-reflectionstore/logging"
	"github.com/holmberd/go-reflectionstore/reflectionstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the state shared by subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
}

// openStore connects to the configured store. The caller closes it.
func (a *app) openStore(cmd *cobra.Command) (*reflectionstore.Store, error) {
	return reflectionstore.Open(cmd.Context(), a.cfg, a.logger)
}

// NewRootCmd returns the reflectionctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "reflectionctl",
		Short: "Inspect and store encoded diffraction reflections",
		Long: `reflectionctl decodes reflection records and manages the reflections
stored per experiment in Redis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if a.configPath != "" {
				var err error
				if cfg, err = config.Load(a.configPath); err != nil {
					return err
				}
			}
			logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")

	rootCmd.AddCommand(
		newLayoutCmd(),
		newInspectCmd(),
		newPutCmd(a),
		newGetCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
	)
	return rootCmd
}
