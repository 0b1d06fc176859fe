package cli

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/execution"
	"github.com/spf13/cobra"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Browse, run and manage agents",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsShowCmd())
	cmd.AddCommand(newAgentsAddCmd())
	cmd.AddCommand(newAgentsRemoveCmd())
	cmd.AddCommand(newAgentsRunCmd())
	return cmd
}

// loadedApp builds the client components and loads the catalog.
func loadedApp(cmd *cobra.Command) (*app, error) {
	a := newApp(log)
	a.echoNotifications(cmd.ErrOrStderr())
	if err := a.catalog.Load(cmd.Context()); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the agents the service offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			agents := a.catalog.List()
			color.New(color.FgGreen).Fprintf(out, "● %d Agents Active\n", len(agents))
			for _, ag := range agents {
				kind := ""
				if ag.IsCustom() {
					kind = " (custom)"
				}
				fmt.Fprintf(out, "  %s %-22s %-28s %s%s\n", ag.Icon, ag.ID, ag.Name, ag.Role, kind)
			}
			return nil
		},
	}
}

func newAgentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show details about an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ag, ok := a.catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("agent %s not found", args[0])
			}
			printAgent(cmd.OutOrStdout(), ag)
			return nil
		},
	}
}

func printAgent(w io.Writer, a domain.Agent) {
	cyan := color.New(color.FgCyan)
	fmt.Fprintf(w, "%s %s\n", a.Icon, color.New(color.Bold).Sprint(a.Name))
	cyan.Fprint(w, "  ID:          ")
	fmt.Fprintln(w, a.ID)
	if a.Type != "" {
		cyan.Fprint(w, "  Type:        ")
		fmt.Fprintln(w, a.Type)
	}
	cyan.Fprint(w, "  Role:        ")
	fmt.Fprintln(w, a.Role)
	cyan.Fprint(w, "  Description: ")
	fmt.Fprintln(w, a.Description)
	cyan.Fprint(w, "  Color:       ")
	fmt.Fprintln(w, a.Color)
	cyan.Fprintln(w, "  Capabilities:")
	for _, c := range a.Capabilities {
		fmt.Fprintf(w, "    • %s\n", c)
	}
}

func newAgentsAddCmd() *cobra.Command {
	var draft domain.AgentDraft
	var colorName string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom agent",
		Example: `  dugout agents add --name "Fielding Coach" --role "Fielding Excellence" \
    --description "Sharpens catching and ground fielding" \
    --capability "Catching Drills" --capability "Ground Fielding"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Color = domain.ParseColor(colorName)
			if err := draft.Normalize().Validate(); err != nil {
				return err
			}

			a, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ag, err := a.catalog.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printAgent(cmd.OutOrStdout(), ag)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "agent name")
	f.StringVar(&draft.Role, "role", "", "agent role")
	f.StringVar(&draft.Description, "description", "", "what the agent does")
	f.StringArrayVar(&draft.Capabilities, "capability", nil, "a capability (repeatable)")
	f.StringVar(&draft.Icon, "icon", domain.DefaultIcon, "icon glyph")
	f.StringVar(&colorName, "color", string(domain.DefaultColor), "accent color")
	return cmd
}

func newAgentsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <agent-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom agent",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !domain.IsCustomID(id) {
				return fmt.Errorf("agent %s is built in and cannot be deleted", id)
			}

			a, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if _, ok := a.catalog.Get(id); !ok {
				return fmt.Errorf("agent %s not found", id)
			}
			return a.catalog.Remove(cmd.Context(), id)
		},
	}
}

func newAgentsRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <agent-id> <input...>",
		Short: "Execute one agent on the given input and print its result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			a, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ag, ok := a.catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("agent %s not found", args[0])
			}

			sess := a.execution.Open(ag)
			defer a.execution.Close(sess)

			if err := a.execution.Submit(ctx, sess, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), sess.Snapshot())
		},
	}
}

func printResult(w io.Writer, snap execution.Snapshot) error {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "%s %s\n", snap.Agent.Icon, snap.Agent.Name)
	if snap.Status != execution.StatusSucceeded {
		return fmt.Errorf("agent %s did not complete: %s", snap.Agent.ID, snap.Status)
	}
	fmt.Fprintln(w, snap.Result)
	return nil
}
