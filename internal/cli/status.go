package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/config"
	"github.com/soyeahso/dugout/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dugout configuration and service reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan)
			green := color.New(color.FgGreen)
			yellow := color.New(color.FgYellow)

			fmt.Fprintf(out, "Dugout %s (commit %s)\n\n", version.Version, version.Commit)

			cyan.Fprint(out, "Config:  ")
			fmt.Fprintln(out, paths.Config)
			cyan.Fprint(out, "Data:    ")
			fmt.Fprintln(out, paths.Data)
			cyan.Fprint(out, "Logs:    ")
			fmt.Fprintln(out, paths.Logs)
			fmt.Fprintln(out)

			sync := "on"
			if !cfg.Catalog.SyncEnabled() {
				sync = "off"
			}
			fmt.Fprintf(out, "Catalog: sync=%s keepOnDeleteFailure=%v\n", sync, cfg.Catalog.KeepOnDeleteFailure)
			fmt.Fprintf(out, "Toasts:  timeout=%ds\n", cfg.Notifications.TimeoutSeconds)
			fmt.Fprintf(out, "Server:  port=%d bind=%s responder=%s\n", cfg.Server.Port, cfg.Server.Bind, cfg.Server.Responder)

			fmt.Fprintf(out, "Service: %s ", cfg.Service.BaseURL)
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			health, err := api.New(cfg.Service.BaseURL, log).Health(ctx)
			switch {
			case err != nil:
				color.New(color.FgRed).Fprintf(out, "UNREACHABLE (%s)\n", errorText(err))
			case health.Version != "":
				green.Fprintf(out, "%s (%s)\n", health.Status, health.Version)
			default:
				green.Fprintln(out, health.Status)
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				yellow.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}
			return nil
		},
	}

	return cmd
}
