package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/api"
	"github.com/soyeahso/dugout/internal/catalog"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/execution"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/notify"
	"github.com/soyeahso/dugout/internal/workflow"
)

// hookDrainTimeout bounds how long a one-shot command waits for async hooks.
const hookDrainTimeout = 10 * time.Second

// app wires the client-side components for one command invocation.
type app struct {
	client    *api.Client
	notes     *notify.Dispatcher
	hooks     *hooks.Manager
	catalog   *catalog.Store
	execution *execution.Controller
	workflow  *workflow.Controller
	log       *logging.Logger
}

func newApp(l *logging.Logger) *app {
	var opts []api.Option
	if cfg.Service.TimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.Service.TimeoutSeconds)*time.Second))
	}
	client := api.New(cfg.Service.BaseURL, l, opts...)

	hookMgr := hooks.NewManager(l)
	if n := hooks.RegisterCommands(hookMgr, cfg.Hooks); n > 0 {
		l.Debug().Int("count", n).Msg("registered config hooks")
	}

	notes := notify.New(time.Duration(cfg.Notifications.TimeoutSeconds)*time.Second, l)
	notes.Subscribe(func(n notify.Notification) {
		hookMgr.EmitAsync(context.Background(), hooks.EventNotification, map[string]any{
			"id":      n.ID,
			"kind":    string(n.Kind),
			"message": n.Message,
		})
	})

	return &app{
		client: client,
		notes:  notes,
		hooks:  hookMgr,
		catalog: catalog.New(client, notes, l,
			catalog.WithSync(cfg.Catalog.SyncEnabled()),
			catalog.WithKeepOnDeleteFailure(cfg.Catalog.KeepOnDeleteFailure),
			catalog.WithHooks(hookMgr),
		),
		execution: execution.New(client, l, execution.WithHooks(hookMgr)),
		workflow:  workflow.New(client, l, workflow.WithHooks(hookMgr)),
		log:       l,
	}
}

// echoNotifications prints every notification to w as it is pushed.
func (a *app) echoNotifications(w io.Writer) {
	a.notes.Subscribe(func(n notify.Notification) {
		printNotification(w, n)
	})
}

// close waits for outstanding hook handlers.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), hookDrainTimeout)
	defer cancel()
	if err := a.hooks.Wait(ctx); err != nil {
		a.log.Warn().Err(err).Msg("hooks still running at exit")
	}
}

var noteColors = map[domain.NotificationKind]*color.Color{
	domain.NotifySuccess: color.New(color.FgGreen),
	domain.NotifyError:   color.New(color.FgRed),
	domain.NotifyWarning: color.New(color.FgYellow),
	domain.NotifyInfo:    color.New(color.FgCyan),
}

func printNotification(w io.Writer, n notify.Notification) {
	c, ok := noteColors[n.Kind]
	if !ok {
		c = noteColors[domain.NotifyInfo]
	}
	c.Fprintf(w, "[%s] %s\n", n.Kind, n.Message)
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "Error: %s\n", errorText(err))
}

// errorText prefers the service's detail for API failures.
func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return api.Detail(err)
	}
	return err.Error()
}
