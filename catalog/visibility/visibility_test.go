package visibility

import (
	"testing"

	"github.com/berbicanes/queryark/catalog"
)

const conn = catalog.ConnectionID("local-pg")

var known = []string{"public", "sales", "audit"}

func TestDefaultIsAllVisible(t *testing.T) {
	f := New()

	for _, s := range known {
		if !f.Visible(conn, s) {
			t.Errorf("schema %s should be visible by default", s)
		}
	}
}

func TestToggleFromAllHidesOne(t *testing.T) {
	f := New()

	if !f.Toggle(conn, "audit", known) {
		t.Fatal("toggle from all should be accepted")
	}
	if f.Visible(conn, "audit") {
		t.Error("audit should be hidden")
	}
	if !f.Visible(conn, "public") || !f.Visible(conn, "sales") {
		t.Error("other schemas should stay visible")
	}
}

func TestToggleLastVisibleIsNoOp(t *testing.T) {
	f := New()

	f.Toggle(conn, "audit", known)
	f.Toggle(conn, "sales", known)
	// Only "public" remains visible.
	if f.Toggle(conn, "public", known) {
		t.Error("hiding the last visible schema must be rejected")
	}
	if !f.Visible(conn, "public") {
		t.Error("public must stay visible after the rejected toggle")
	}
}

func TestToggleSingleKnownSchemaIsNoOp(t *testing.T) {
	f := New()

	if f.Toggle(conn, "main", []string{"main"}) {
		t.Error("a connection with one schema can never hide it")
	}
}

func TestReAddingAllCollapsesToAll(t *testing.T) {
	f := New()

	f.Toggle(conn, "audit", known)
	f.Toggle(conn, "audit", known)

	if hidden := f.Hidden(conn, known); hidden != nil {
		t.Errorf("expected collapse back to all-visible, still hidden: %v", hidden)
	}
	for _, s := range known {
		if !f.Visible(conn, s) {
			t.Errorf("schema %s should be visible again", s)
		}
	}
}

func TestApplyDefaultsHidesSystemSchemas(t *testing.T) {
	f := New()
	all := []string{"public", "information_schema", "pg_catalog"}

	f.ApplyDefaults(conn, "postgres", all)

	if f.Visible(conn, "information_schema") || f.Visible(conn, "pg_catalog") {
		t.Error("system schemas should be hidden by default")
	}
	if !f.Visible(conn, "public") {
		t.Error("user schemas should stay visible")
	}
}

func TestDefaultsDoNotOverrideUserChoice(t *testing.T) {
	f := New()
	all := []string{"public", "information_schema"}

	// User explicitly shows everything by toggling a hidden schema on.
	f.ApplyDefaults(conn, "postgres", all)
	f.Toggle(conn, "information_schema", all)

	// A reconnect re-applies defaults; the explicit choice is sticky.
	f.ApplyDefaults(conn, "postgres", all)

	if !f.Visible(conn, "information_schema") {
		t.Error("an explicit user choice must never be silently overridden")
	}
}

func TestVisibleSchemasFilters(t *testing.T) {
	f := New()
	infos := []catalog.SchemaInfo{{Name: "public"}, {Name: "sales"}, {Name: "audit"}}

	f.Toggle(conn, "sales", known)

	got := f.VisibleSchemas(conn, infos)
	if len(got) != 2 || got[0].Name != "public" || got[1].Name != "audit" {
		t.Errorf("unexpected visible subset: %v", got)
	}
}
