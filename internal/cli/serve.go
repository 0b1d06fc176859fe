package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/config"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/llm"
	"github.com/soyeahso/dugout/internal/server"
	"github.com/soyeahso/dugout/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		bind      string
		database  string
		responder string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local orchestration service",
		Long:  "Serve the agent and workflow API on the configured port, answering with the scripted responder or a local Ollama model.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cfg.Server
			if port != 0 {
				sc.Port = port
			}
			if bind != "" {
				sc.Bind = bind
			}
			if database != "" {
				sc.Database = database
			}
			if responder != "" {
				sc.Responder = responder
			}
			cfg.Server = sc

			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if sc.Database == "" {
				if err := paths.EnsureDirs(); err != nil {
					return err
				}
				sc.Database = paths.Database()
			}
			db, err := store.Open(sc.Database, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			client, err := llm.New(sc, log)
			if err != nil {
				return err
			}

			hookMgr := hooks.NewManager(log)
			if n := hooks.RegisterCommands(hookMgr, cfg.Hooks); n > 0 {
				log.Info().Int("count", n).Msg("registered config hooks")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(sc, server.NewOrchestrator(client, db, log), log, server.WithHooks(hookMgr))
			go announce(ctx, cmd, srv.Ready(), client.Name())
			return serve(ctx, srv)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan)")
	cmd.Flags().StringVar(&database, "database", "", "SQLite file, or :memory:")
	cmd.Flags().StringVar(&responder, "responder", "", "override responder (scripted, ollama)")
	return cmd
}

func announce(ctx context.Context, cmd *cobra.Command, ready <-chan string, responder string) {
	select {
	case addr := <-ready:
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Serving on http://%s (responder: %s)\n", addr, responder)
	case <-ctx.Done():
	}
}

// serve is swapped out in tests.
var serve = func(ctx context.Context, srv *server.Server) error {
	return srv.Start(ctx)
}
