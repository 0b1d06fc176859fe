package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/soyeahso/dugout/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set configuration values",
		Long:  "Read and edit the config file by dot-separated key, e.g. service.baseUrl or catalog.syncCustomAgents.",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

// loadKey parses raw and reads the config file it addresses.
func loadKey(raw string) (config.Key, map[string]any, error) {
	key, err := config.ParseKey(raw)
	if err != nil {
		return nil, nil, err
	}
	tree, err := config.LoadRaw(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	return key, tree, nil
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, tree, err := loadKey(args[0])
			if err != nil {
				return err
			}
			val, ok := key.Get(tree)
			if !ok {
				return fmt.Errorf("key %q not found", key)
			}
			return printValue(cmd.OutOrStdout(), val)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, tree, err := loadKey(args[0])
			if err != nil {
				return err
			}
			if !key.Known() {
				return fmt.Errorf("unknown config key %q", key)
			}

			value := parseValue(args[1])
			key.Set(tree, value)
			if err := checkTree(tree); err != nil {
				return err
			}
			if err := config.SaveRaw(paths.Config, tree); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, tree, err := loadKey(args[0])
			if err != nil {
				return err
			}
			if !key.Unset(tree) {
				return fmt.Errorf("key %q not found", key)
			}
			if err := config.SaveRaw(paths.Config, tree); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, defaults and environment merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			issues := config.Validate(&cfg)
			if len(issues) == 0 {
				color.New(color.FgGreen).Fprintln(out, "Config OK")
				return nil
			}
			for _, issue := range issues {
				color.New(color.FgYellow).Fprintf(out, "  - %s\n", issue)
			}
			return fmt.Errorf("%d config issue(s)", len(issues))
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.Config)
		},
	}
}

// printValue writes scalars on one line and tables as YAML.
func printValue(w io.Writer, v any) error {
	switch v.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// parseValue reads s as a bool, integer or float where it parses as one.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// checkTree rejects edits that would leave the config invalid.
func checkTree(tree map[string]any) error {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	c := config.Defaults()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if issues := config.Validate(&c); len(issues) > 0 {
		return fmt.Errorf("invalid value: %s", issues[0])
	}
	return nil
}
