package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/cli/internal/config"
	"github.com/berbicanes/queryark/cli/internal/ui"
)

func newConnectionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "Manage the connection registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.Connections) == 0 {
				path, _ := config.Path()
				ui.PrintInfo("no connections registered, add one with 'queryark connections add' (stored in %s)", path)
				return nil
			}
			rows := make([][]string, 0, len(a.cfg.Connections))
			for _, c := range a.cfg.Connections {
				version := c.Version
				if version == "" {
					version = "-"
				}
				rows = append(rows, []string{c.Name, c.Provider, version})
			}
			ui.PrintTable([]string{"Name", "Provider", "Version"}, rows)
			return nil
		},
	}

	cmd.AddCommand(newConnectionsAddCommand(a))
	cmd.AddCommand(newConnectionsRemoveCommand(a))
	return cmd
}

func newConnectionsAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Register a new connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var conn config.Connection
			questions := []*survey.Question{
				{
					Name:     "name",
					Prompt:   &survey.Input{Message: "Connection name:"},
					Validate: survey.Required,
				},
				{
					Name: "provider",
					Prompt: &survey.Select{
						Message: "Provider:",
						Options: []string{"postgres", "mysql", "mariadb", "sqlite", "sqlserver"},
					},
				},
				{
					Name:     "dsn",
					Prompt:   &survey.Input{Message: "DSN:"},
					Validate: survey.Required,
				},
				{
					Name:   "version",
					Prompt: &survey.Input{Message: "Server version (optional):"},
				},
			}
			if err := survey.Ask(questions, &conn); err != nil {
				return err
			}

			if _, err := a.cfg.Connection(conn.Name); err == nil {
				return fmt.Errorf("connection %q already exists", conn.Name)
			}

			a.cfg.Connections = append(a.cfg.Connections, conn)
			if err := config.Save(a.cfg); err != nil {
				return err
			}
			ui.PrintSuccess("registered %s", conn.Name)
			return nil
		},
	}
}

func newConnectionsRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			kept := a.cfg.Connections[:0]
			removed := false
			for _, c := range a.cfg.Connections {
				if c.Name == name {
					removed = true
					continue
				}
				kept = append(kept, c)
			}
			if !removed {
				return fmt.Errorf("unknown connection %q", name)
			}
			a.cfg.Connections = kept
			if err := config.Save(a.cfg); err != nil {
				return err
			}
			a.cache.ClearConnection(catalogID(name))
			ui.PrintSuccess("removed %s", name)
			return nil
		},
	}
}
