package dialect

import "testing"

func TestForProvider(t *testing.T) {
	cases := map[string]string{
		"postgres":   "postgres",
		"postgresql": "postgres",
		"mysql":      "mysql",
		"mariadb":    "mysql",
		"sqlite3":    "sqlite",
		"mssql":      "sqlserver",
	}
	for provider, want := range cases {
		d, err := ForProvider(provider, "")
		if err != nil {
			t.Fatalf("%s: %v", provider, err)
		}
		if d.Name() != want {
			t.Errorf("%s: expected %s, got %s", provider, want, d.Name())
		}
	}

	if _, err := ForProvider("oracle", ""); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestQuoting(t *testing.T) {
	if got := NewPostgres().Quote(`we"ird`); got != `"we""ird"` {
		t.Errorf("postgres quoting: %s", got)
	}
	if got := NewMySQL("").Quote("ta`ble"); got != "`ta``ble`" {
		t.Errorf("mysql quoting: %s", got)
	}
	if got := NewSQLServer().Quote("ta]ble"); got != "[ta]]ble]" {
		t.Errorf("sqlserver quoting: %s", got)
	}
}

func TestQualifiedTable(t *testing.T) {
	if got := NewPostgres().QualifiedTable("public", "t"); got != `"public"."t"` {
		t.Errorf("postgres qualification: %s", got)
	}
	// SQLite's main database is implicit.
	if got := NewSQLite("").QualifiedTable("main", "t"); got != `"t"` {
		t.Errorf("sqlite main qualification: %s", got)
	}
}

func TestSQLServerDefaultNormalization(t *testing.T) {
	d := NewSQLServer()
	if got := d.NormalizeDefault("((0))"); got != "0" {
		t.Errorf("expected parenthesis stripping, got %q", got)
	}
	if got := d.NormalizeDefault("getdate(  )"); got != "getdate( )" {
		t.Errorf("expected whitespace collapse, got %q", got)
	}
}

func TestVersionGates(t *testing.T) {
	if NewSQLite("3.34.9").SupportsDropColumn() {
		t.Error("sqlite before 3.35 cannot drop columns")
	}
	if !NewSQLite("3.35.0").SupportsDropColumn() {
		t.Error("sqlite 3.35 can drop columns")
	}
	// Unknown versions assume a current server.
	if !NewSQLite("").SupportsDropColumn() {
		t.Error("empty version assumes a modern engine")
	}
	if NewMySQL("5.1.0").SupportsForeignKeyDDL() {
		t.Error("ancient mysql lacks foreign key DDL")
	}
}
