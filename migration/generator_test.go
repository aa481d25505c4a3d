package migration

import (
	"strings"
	"testing"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/compare"
	"github.com/berbicanes/queryark/dialect"
)

func diffTables(t *testing.T, d dialect.Dialect, source, target catalog.TableDefinition) *compare.StructuralResult {
	t.Helper()
	return compare.NewStructuralDiffer(d).Compare(source, target)
}

func TestPostgresAddDropAlterColumn(t *testing.T) {
	pg := dialect.NewPostgres()
	source := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "integer", IsPrimaryKey: true},
		{Name: "name", Type: "text"},
		{Name: "legacy", Type: "text", Nullable: true},
	}}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "integer", IsPrimaryKey: true},
		{Name: "name", Type: "varchar(255)"},
		{Name: "age", Type: "integer", Nullable: true},
	}}

	stmts := NewGenerator(pg).Generate(diffTables(t, pg, source, target), "public", "person")

	joined := strings.Join(stmts, "\n")
	wantFragments := []string{
		`ALTER TABLE "public"."person" ALTER COLUMN "name" TYPE varchar(255);`,
		`ALTER TABLE "public"."person" DROP COLUMN "legacy";`,
		`ALTER TABLE "public"."person" ADD COLUMN "age" integer;`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(joined, frag) {
			t.Errorf("missing statement %q in:\n%s", frag, joined)
		}
	}
}

func TestStatementOrderColumnsIndexesForeignKeys(t *testing.T) {
	pg := dialect.NewPostgres()
	source := catalog.TableDefinition{}
	target := catalog.TableDefinition{
		Columns: []catalog.Column{{Name: "org_id", Type: "integer", Nullable: true}},
		Indexes: []catalog.Index{{Name: "person_org_idx", Columns: []string{"org_id"}}},
		ForeignKeys: []catalog.ForeignKey{{Name: "person_org_fk", Columns: []string{"org_id"},
			ReferencedTable: "org", ReferencedColumns: []string{"id"}}},
	}

	stmts := NewGenerator(pg).Generate(diffTables(t, pg, source, target), "public", "person")

	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %v", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "ADD COLUMN") {
		t.Errorf("columns must come first, got %q", stmts[0])
	}
	if !strings.Contains(stmts[1], "CREATE INDEX") {
		t.Errorf("indexes must come second, got %q", stmts[1])
	}
	if !strings.Contains(stmts[2], "ADD CONSTRAINT") {
		t.Errorf("foreign keys must come last, got %q", stmts[2])
	}
}

func TestChangedIndexIsDropThenCreate(t *testing.T) {
	pg := dialect.NewPostgres()
	source := catalog.TableDefinition{Indexes: []catalog.Index{
		{Name: "idx", Columns: []string{"a"}},
	}}
	target := catalog.TableDefinition{Indexes: []catalog.Index{
		{Name: "idx", Columns: []string{"a"}, IsUnique: true},
	}}

	stmts := NewGenerator(pg).Generate(diffTables(t, pg, source, target), "public", "t")

	if len(stmts) != 2 {
		t.Fatalf("expected drop+create, got %v", stmts)
	}
	if !strings.HasPrefix(stmts[0], "DROP INDEX") {
		t.Errorf("expected DROP first, got %q", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE UNIQUE INDEX") {
		t.Errorf("expected CREATE UNIQUE second, got %q", stmts[1])
	}
}

func TestSQLiteDropColumnVersionGated(t *testing.T) {
	source := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "integer"},
		{Name: "old", Type: "text", Nullable: true},
	}}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "id", Type: "integer"},
	}}

	old := dialect.NewSQLite("3.30.1")
	stmts := NewGenerator(old).Generate(diffTables(t, old, source, target), "", "t")
	if len(stmts) != 1 || !strings.HasPrefix(stmts[0], "-- unsupported:") {
		t.Errorf("sqlite 3.30 cannot drop columns, expected placeholder: %v", stmts)
	}

	modern := dialect.NewSQLite("3.36.0")
	stmts = NewGenerator(modern).Generate(diffTables(t, modern, source, target), "", "t")
	if len(stmts) != 1 || !strings.Contains(stmts[0], "DROP COLUMN") {
		t.Errorf("sqlite 3.36 drops columns natively: %v", stmts)
	}
}

func TestUnsupportedOperationsAreNeverSilentlyDropped(t *testing.T) {
	lite := dialect.NewSQLite("")
	source := catalog.TableDefinition{
		Columns:     []catalog.Column{{Name: "c", Type: "text"}},
		ForeignKeys: []catalog.ForeignKey{{Name: "fk", Columns: []string{"c"}, ReferencedTable: "o"}},
	}
	target := catalog.TableDefinition{
		Columns: []catalog.Column{{Name: "c", Type: "integer"}},
	}

	stmts := NewGenerator(lite).Generate(diffTables(t, lite, source, target), "", "t")

	// One placeholder for the in-place type change, one for the FK drop.
	placeholders := 0
	for _, s := range stmts {
		if strings.HasPrefix(s, "-- unsupported:") {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Errorf("expected 2 placeholders, got %d in %v", placeholders, stmts)
	}
}

func TestMySQLForeignKeyDropSyntax(t *testing.T) {
	my := dialect.NewMySQL("8.0.34")
	source := catalog.TableDefinition{ForeignKeys: []catalog.ForeignKey{
		{Name: "fk", Columns: []string{"c"}, ReferencedTable: "o", ReferencedColumns: []string{"id"}},
	}}
	target := catalog.TableDefinition{}

	stmts := NewGenerator(my).Generate(diffTables(t, my, source, target), "shop", "t")

	if len(stmts) != 1 || !strings.Contains(stmts[0], "DROP FOREIGN KEY") {
		t.Errorf("mysql drops foreign keys with DROP FOREIGN KEY: %v", stmts)
	}
}

func TestNullabilityChange(t *testing.T) {
	pg := dialect.NewPostgres()
	source := catalog.TableDefinition{Columns: []catalog.Column{{Name: "c", Type: "text", Nullable: true}}}
	target := catalog.TableDefinition{Columns: []catalog.Column{{Name: "c", Type: "text"}}}

	stmts := NewGenerator(pg).Generate(diffTables(t, pg, source, target), "public", "t")

	if len(stmts) != 1 || !strings.Contains(stmts[0], "SET NOT NULL") {
		t.Errorf("expected SET NOT NULL, got %v", stmts)
	}
}

func TestScriptJoinsStatements(t *testing.T) {
	pg := dialect.NewPostgres()
	source := catalog.TableDefinition{}
	target := catalog.TableDefinition{Columns: []catalog.Column{
		{Name: "a", Type: "text", Nullable: true},
		{Name: "b", Type: "text", Nullable: true},
	}}

	script := NewGenerator(pg).Script(diffTables(t, pg, source, target), "public", "t")
	if strings.Count(script, "\n") != 1 {
		t.Errorf("expected two statements on two lines:\n%s", script)
	}
}
