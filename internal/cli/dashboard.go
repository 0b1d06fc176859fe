package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/tui"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive team dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the dashboard, so logs go to a file.
			if logFile == "" {
				logFile = cfg.Logging.File
			}
			if logFile == "" {
				logFile = paths.LogFile()
			}
			fileLog, closer, err := logging.Open(logging.Options{
				Level: cfg.Logging.Level,
				Style: cfg.Logging.ConsoleStyle,
				File:  logFile,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			a := newApp(fileLog)
			defer a.close()
			fileLog.Info().Str("service", cfg.Service.BaseURL).Msg("dashboard starting")

			return runDashboard(ctx, tui.Deps{
				Catalog:   a.catalog,
				Execution: a.execution,
				Workflow:  a.workflow,
				Notes:     a.notes,
				Log:       fileLog,
			})
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "log destination (default ~/.dugout/logs/dugout.log)")
	return cmd
}

// runDashboard is swapped out in tests.
var runDashboard = func(ctx context.Context, deps tui.Deps) error {
	return tui.Run(ctx, deps)
}
