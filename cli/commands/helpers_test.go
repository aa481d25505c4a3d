package commands

import (
	"testing"

	"github.com/berbicanes/queryark/cli/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{Connections: []config.Connection{
		{Name: "prod", Provider: "postgres", DSN: "postgres://prod/db"},
	}}
}

func TestParseTarget(t *testing.T) {
	cfg := testConfig()

	full, err := parseTarget(cfg, "prod:public.users")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if full.conn.Name != "prod" || full.path.Schema != "public" || full.path.Table != "users" {
		t.Errorf("unexpected target: %+v", full)
	}
	if err := requireTable(full, "prod:public.users"); err != nil {
		t.Errorf("table target rejected: %v", err)
	}

	bare, err := parseTarget(cfg, "prod")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bare.path.IsTable() {
		t.Error("bare connection has no table path")
	}
	if err := requireTable(bare, "prod"); err == nil {
		t.Error("expected error for missing table path")
	}

	if _, err := parseTarget(cfg, "staging:public.users"); err == nil {
		t.Error("expected error for unregistered connection")
	}
}

func TestResolveKeyColumns(t *testing.T) {
	columns := []string{"id", "region", "total"}

	positions, err := resolveKeyColumns(columns, []string{"region", "id"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(positions) != 2 || positions[0] != 1 || positions[1] != 0 {
		t.Errorf("unexpected positions: %v", positions)
	}

	if _, err := resolveKeyColumns(columns, []string{"missing"}); err == nil {
		t.Error("expected error for unknown key column")
	}

	positions, err = resolveKeyColumns(columns, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("no keys means positional: %v", positions)
	}
}
