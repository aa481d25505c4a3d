package catalog

import "testing"

func TestParsePath(t *testing.T) {
	p := ParsePath("public.users")
	if p.Schema != "public" || p.Table != "users" {
		t.Errorf("unexpected split: %+v", p)
	}
	if !p.IsTable() {
		t.Error("schema.table addresses a table")
	}
	if p.Key() != "public.users" {
		t.Errorf("key: %s", p.Key())
	}

	s := ParsePath("analytics")
	if s.Schema != "analytics" || s.Table != "" {
		t.Errorf("unexpected split: %+v", s)
	}
	if s.IsTable() {
		t.Error("bare schema is not a table")
	}

	// Only the first dot separates.
	dotted := ParsePath("main.odd.name")
	if dotted.Schema != "main" || dotted.Table != "odd.name" {
		t.Errorf("unexpected split: %+v", dotted)
	}
}
