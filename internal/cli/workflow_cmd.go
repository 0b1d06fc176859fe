package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/workflow"
	"github.com/spf13/cobra"
)

func newWorkflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Run the team preparation workflow",
	}

	cmd.AddCommand(newWorkflowRunCmd())
	cmd.AddCommand(newWorkflowListCmd())
	return cmd
}

func newWorkflowRunCmd() *cobra.Command {
	var (
		match  string
		player string
		brief  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the complete team preparation workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a := newApp(log)
			a.echoNotifications(cmd.ErrOrStderr())
			defer a.close()

			sess := a.workflow.Open()
			defer a.workflow.Close(sess)

			if err := a.workflow.Execute(ctx, sess, match, player); err != nil {
				return err
			}
			printWorkflow(cmd.OutOrStdout(), sess.Snapshot(), brief)
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "match information (required)")
	cmd.Flags().StringVar(&player, "player", "", "player name (required)")
	cmd.Flags().BoolVar(&brief, "brief", false, "print the result previews only")
	_ = cmd.MarkFlagRequired("match")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func printWorkflow(w io.Writer, snap workflow.Snapshot, brief bool) {
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	green.Fprint(w, "Workflow Completed  ")
	dim.Fprintln(w, workflow.Summary(snap.Tasks))
	if snap.WorkflowID != "" {
		dim.Fprintf(w, "id %s\n", snap.WorkflowID)
	}
	fmt.Fprintln(w)

	for _, t := range snap.Tasks {
		fmt.Fprintf(w, "%s %s  %s", domain.AgentIcon(t.AgentType), domain.AgentLabel(t.AgentType), t.Method)
		if ind := t.Status.Indicator(); ind != "" {
			taskColor(t.Status).Fprintf(w, "  %s", ind)
		}
		fmt.Fprintln(w)

		body := t.Display()
		if brief && t.Summary() != "" {
			body = t.Summary()
		}
		fmt.Fprintf(w, "%s\n\n", body)
	}
}

func taskColor(s domain.TaskStatus) *color.Color {
	switch s {
	case domain.TaskCompleted:
		return color.New(color.FgGreen)
	case domain.TaskFailed:
		return color.New(color.FgRed)
	case domain.TaskInProgress:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}

func newWorkflowListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workflows recorded by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(log)
			defer a.close()

			runs, err := a.client.ListWorkflows(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No workflows yet.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "  %-36s %-28s %-10s %d tasks\n", r.ID, r.Name, r.Status, r.TaskCount)
			}
			return nil
		},
	}
}
