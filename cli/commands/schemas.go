package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/cli/internal/config"
	"github.com/berbicanes/queryark/cli/internal/ui"
)

func newSchemasCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "schemas <connection>",
		Short: "List the schemas of a connection",
		Long: `List schemas with engine system schemas hidden by default. Hidden
schemas that were toggled off are remembered in the config file; --all
shows everything regardless.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(a.cfg, args[0])
			if err != nil {
				return err
			}
			schemas, err := a.loadSchemas(cmd.Context(), target)
			if err != nil {
				return err
			}

			names := schemaNames(schemas)
			a.seedVisibility(target, names)

			listed := schemas
			if !all {
				listed = a.visibility.VisibleSchemas(target.id(), schemas)
			}

			rows := make([][]string, 0, len(listed))
			for _, s := range listed {
				def := ""
				if s.IsDefault {
					def = "default"
				}
				vis := "visible"
				if !a.visibility.Visible(target.id(), s.Name) {
					vis = "hidden"
				}
				rows = append(rows, []string{s.Name, def, vis})
			}
			ui.PrintTable([]string{"Schema", "", "Visibility"}, rows)

			if hidden := a.visibility.Hidden(target.id(), names); len(hidden) > 0 && !all {
				ui.PrintInfo("%d hidden (use --all to show)", len(hidden))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include hidden schemas")

	cmd.AddCommand(newSchemasToggleCommand(a))
	return cmd
}

func newSchemasToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <connection> <schema>",
		Short: "Show or hide a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(a.cfg, args[0])
			if err != nil {
				return err
			}
			schema := args[1]

			schemas, err := a.loadSchemas(cmd.Context(), target)
			if err != nil {
				return err
			}
			names := schemaNames(schemas)
			a.seedVisibility(target, names)

			if !a.visibility.Toggle(target.id(), schema, names) {
				ui.PrintWarning("cannot hide %q, at least one schema must stay visible", schema)
				return nil
			}

			target.conn.Hidden = a.visibility.Hidden(target.id(), names)
			if err := config.Save(a.cfg); err != nil {
				return err
			}

			if a.visibility.Visible(target.id(), schema) {
				ui.PrintSuccess("%s is now visible", schema)
			} else {
				ui.PrintSuccess("%s is now hidden", schema)
			}
			return nil
		},
	}
}

// loadSchemas returns the schema list, cached per invocation.
func (a *app) loadSchemas(ctx context.Context, t *target) ([]catalog.SchemaInfo, error) {
	if schemas, ok := a.cache.Schemas(t.id()); ok {
		return schemas, nil
	}
	s, err := openSession(t)
	if err != nil {
		return nil, err
	}
	defer s.close()

	schemas, err := s.loader.Schemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas from %s: %w", t.conn.Name, err)
	}
	a.cache.SetSchemas(t.id(), schemas)
	return schemas, nil
}

// seedVisibility restores the persisted toggles, or applies the provider
// defaults when the user never customized this connection.
func (a *app) seedVisibility(t *target, names []string) {
	if len(t.conn.Hidden) == 0 {
		if d, err := providerDialect(t); err == nil {
			a.visibility.ApplyDefaults(t.id(), d, names)
		}
		return
	}
	for _, h := range t.conn.Hidden {
		a.visibility.Toggle(t.id(), h, names)
	}
}

func schemaNames(schemas []catalog.SchemaInfo) []string {
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
	}
	return names
}
