// Package cli implements the dugout command tree.
package cli

import (
	"github.com/soyeahso/dugout/internal/config"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	paths    config.Paths
	cfg      config.Config
	log      *logging.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dugout",
		Short: "Dugout - cricket team agent dashboard",
		Long:  "Dugout browses, runs and extends a roster of cricket team AI agents and drives the team preparation workflow.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			log = logging.New(nil, cfg.Logging.Level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.dugout/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (silent, error, warn, info, debug, trace)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newAgentsCmd())
	root.AddCommand(newWorkflowCmd())
	root.AddCommand(newDashboardCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	return err
}
