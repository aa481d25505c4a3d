package compare

import (
	"strings"
	"testing"

	"github.com/berbicanes/queryark/catalog"
)

func strptr(s string) *string { return &s }

func personTable() catalog.TableDefinition {
	return catalog.TableDefinition{
		Columns: []catalog.Column{
			{Name: "id", Type: "int", IsPrimaryKey: true},
			{Name: "name", Type: "text", Nullable: true},
		},
		Indexes: []catalog.Index{
			{Name: "person_pkey", Columns: []string{"id"}, IsUnique: true, IsPrimary: true},
		},
		ForeignKeys: []catalog.ForeignKey{
			{Name: "person_org_fk", Columns: []string{"org_id"}, ReferencedTable: "org",
				ReferencedColumns: []string{"id"}, OnDelete: "CASCADE"},
		},
	}
}

func TestIdentityDiffIsAllUnchanged(t *testing.T) {
	table := personTable()
	result := NewStructuralDiffer(nil).Compare(table, table)

	s := result.Summary
	if s.Added != 0 || s.Removed != 0 || s.Changed != 0 {
		t.Errorf("self-diff must be clean, got %+v", s)
	}
	want := len(table.Columns) + len(table.Indexes) + len(table.ForeignKeys)
	if s.Unchanged != want {
		t.Errorf("expected %d unchanged entries, got %d", want, s.Unchanged)
	}
}

func TestColumnClassification(t *testing.T) {
	source := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "int", IsPrimaryKey: true},
		{Name: "name", Type: "text"},
	}}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "int", IsPrimaryKey: true},
		{Name: "name", Type: "varchar"},
		{Name: "age", Type: "int"},
	}}

	result := NewStructuralDiffer(nil).Compare(source, target)

	byName := make(map[string]ColumnDiff)
	for _, d := range result.Columns {
		byName[d.Name] = d
	}

	if byName["age"].Status != StatusAdded {
		t.Errorf("age should be added, got %s", byName["age"].Status)
	}
	if byName["id"].Status != StatusUnchanged {
		t.Errorf("id should be unchanged, got %s", byName["id"].Status)
	}
	name := byName["name"]
	if name.Status != StatusChanged {
		t.Fatalf("name should be changed, got %s", name.Status)
	}
	if len(name.Changes) != 1 || !strings.Contains(name.Changes[0], "text -> varchar") {
		t.Errorf("expected one type change description, got %v", name.Changes)
	}

	s := result.Summary
	if s.Added != 1 || s.Removed != 0 || s.Changed != 1 || s.Unchanged != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestUnionOrderSourceFirst(t *testing.T) {
	source := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "b"}, {Name: "a"},
	}}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "z"}, {Name: "a"},
	}}

	result := NewStructuralDiffer(nil).Compare(source, target)

	var order []string
	for _, d := range result.Columns {
		order = append(order, d.Name)
	}
	want := []string{"b", "a", "z"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestMirrorProperty(t *testing.T) {
	a := personTable()
	b := catalog.TableDefinition{
		Columns: []catalog.Column{
			{Name: "id", Type: "bigint", IsPrimaryKey: true},
			{Name: "email", Type: "text"},
		},
		Indexes: []catalog.Index{
			{Name: "person_pkey", Columns: []string{"id"}, IsUnique: true, IsPrimary: true},
			{Name: "person_email_idx", Columns: []string{"email"}},
		},
	}

	differ := NewStructuralDiffer(nil)
	ab := differ.Compare(a, b).Summary
	ba := differ.Compare(b, a).Summary

	if ab.Added != ba.Removed || ab.Removed != ba.Added {
		t.Errorf("added/removed must swap under mirroring: %+v vs %+v", ab, ba)
	}
	if ab.Changed != ba.Changed || ab.Unchanged != ba.Unchanged {
		t.Errorf("changed/unchanged must be identical under mirroring: %+v vs %+v", ab, ba)
	}
}

func TestIndexAttributeChanges(t *testing.T) {
	source := catalog.TableDefinition{Indexes: []catalog.Index{
		{Name: "idx", Columns: []string{"a", "b"}},
	}}
	target := catalog.TableDefinition{Indexes: []catalog.Index{
		{Name: "idx", Columns: []string{"b", "a"}, IsUnique: true},
	}}

	result := NewStructuralDiffer(nil).Compare(source, target)
	if len(result.Indexes) != 1 {
		t.Fatalf("expected a single index entry, got %d", len(result.Indexes))
	}
	d := result.Indexes[0]
	if d.Status != StatusChanged {
		t.Fatalf("expected changed, got %s", d.Status)
	}
	// Column order and uniqueness both differ.
	if len(d.Changes) != 2 {
		t.Errorf("expected 2 change descriptions, got %v", d.Changes)
	}
}

func TestForeignKeyAttributeChanges(t *testing.T) {
	source := catalog.TableDefinition{ForeignKeys: []catalog.ForeignKey{
		{Name: "fk", Columns: []string{"org_id"}, ReferencedTable: "org",
			ReferencedColumns: []string{"id"}, OnDelete: "CASCADE"},
	}}
	target := catalog.TableDefinition{ForeignKeys: []catalog.ForeignKey{
		{Name: "fk", Columns: []string{"org_id"}, ReferencedTable: "organization",
			ReferencedColumns: []string{"id"}, OnDelete: "SET NULL"},
	}}

	result := NewStructuralDiffer(nil).Compare(source, target)
	d := result.ForeignKeys[0]
	if d.Status != StatusChanged {
		t.Fatalf("expected changed, got %s", d.Status)
	}
	if len(d.Changes) != 2 {
		t.Errorf("expected referenced-table and on-delete changes, got %v", d.Changes)
	}
}

func TestDefaultWhitespaceNormalized(t *testing.T) {
	source := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "c", Type: "text", DefaultValue: strptr("now(  )")},
	}}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "c", Type: "text", DefaultValue: strptr("now( )")},
	}}

	result := NewStructuralDiffer(nil).Compare(source, target)
	if result.Columns[0].Status != StatusUnchanged {
		t.Errorf("whitespace-only default difference must not count as a change: %v",
			result.Columns[0].Changes)
	}
}

func TestCrossDialectTypesCompareLiterally(t *testing.T) {
	source := catalog.TableDefinition{Columns: []catalog.Column{{Name: "c", Type: "int4"}}}
	target := catalog.TableDefinition{Columns: []catalog.Column{{Name: "c", Type: "integer"}}}

	result := NewStructuralDiffer(nil).Compare(source, target)
	if result.Columns[0].Status != StatusChanged {
		t.Error("type aliases are not unified; int4 vs integer is a change")
	}
}
