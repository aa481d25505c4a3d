package cache

import (
	"fmt"
	"testing"

	"github.com/berbicanes/queryark/catalog"
)

const conn = catalog.ConnectionID("local-pg")

func tablePath(i int) catalog.CatalogPath {
	return catalog.TablePath("public", fmt.Sprintf("t%03d", i))
}

func someColumns() []catalog.Column {
	return []catalog.Column{{Name: "id", Type: "integer", IsPrimaryKey: true}}
}

func TestGetMissIsNotError(t *testing.T) {
	c := New(0)

	if _, ok := c.Columns(conn, tablePath(1)); ok {
		t.Error("expected miss on empty cache")
	}
	if _, ok := c.Schemas(conn); ok {
		t.Error("expected schema miss on empty cache")
	}
}

func TestSetReplacesWholesale(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.SetColumns(conn, path, []catalog.Column{{Name: "a"}, {Name: "b"}})
	c.SetColumns(conn, path, []catalog.Column{{Name: "only"}})

	cols, ok := c.Columns(conn, path)
	if !ok {
		t.Fatal("expected columns after set")
	}
	if len(cols) != 1 || cols[0].Name != "only" {
		t.Errorf("expected wholesale replacement, got %v", cols)
	}
}

func TestEmptySnapshotReadsAsMiss(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.SetColumns(conn, path, nil)
	if _, ok := c.Columns(conn, path); ok {
		t.Error("empty snapshot must be indistinguishable from an unloaded table")
	}
}

func TestEvictionCap(t *testing.T) {
	c := New(200)

	for i := 0; i < 205; i++ {
		c.SetColumns(conn, tablePath(i), someColumns())
	}

	if got := c.DetailCount(conn); got != 200 {
		t.Fatalf("expected exactly 200 detail entries, got %d", got)
	}
	// The 5 least recently touched tables are gone.
	for i := 0; i < 5; i++ {
		if _, ok := c.Columns(conn, tablePath(i)); ok {
			t.Errorf("expected table %d to be evicted", i)
		}
	}
	for i := 5; i < 205; i++ {
		if _, ok := c.Columns(conn, tablePath(i)); !ok {
			t.Fatalf("expected table %d to survive", i)
		}
	}
}

func TestEvictionSparesRecentlyTouched(t *testing.T) {
	c := New(10)

	for i := 0; i < 10; i++ {
		c.SetColumns(conn, tablePath(i), someColumns())
	}
	// Touch the oldest table, then overflow by one.
	if _, ok := c.Columns(conn, tablePath(0)); !ok {
		t.Fatal("expected table 0 cached")
	}
	c.SetColumns(conn, tablePath(10), someColumns())

	if _, ok := c.Columns(conn, tablePath(0)); !ok {
		t.Error("most recently touched table must never be evicted")
	}
	if _, ok := c.Columns(conn, tablePath(1)); ok {
		t.Error("expected the least recently touched table to be evicted instead")
	}
	if got := c.DetailCount(conn); got != 10 {
		t.Errorf("expected 10 detail entries, got %d", got)
	}
}

func TestEvictionDropsDetailCollectionsTogether(t *testing.T) {
	c := New(2)
	victim := tablePath(0)

	c.SetColumns(conn, victim, someColumns())
	c.SetIndexes(conn, victim, []catalog.Index{{Name: "t0_pkey", Columns: []string{"id"}}})
	c.SetForeignKeys(conn, victim, []catalog.ForeignKey{{Name: "t0_fk", Columns: []string{"id"}}})
	c.SetTableStats(conn, victim, &catalog.TableStats{RowCount: 7})

	c.SetColumns(conn, tablePath(1), someColumns())
	c.SetColumns(conn, tablePath(2), someColumns())

	if _, ok := c.Columns(conn, victim); ok {
		t.Error("columns should be gone after eviction")
	}
	if _, ok := c.Indexes(conn, victim); ok {
		t.Error("indexes should be gone after eviction")
	}
	if _, ok := c.ForeignKeys(conn, victim); ok {
		t.Error("foreign keys should be gone after eviction")
	}
	if _, ok := c.TableStats(conn, victim); ok {
		t.Error("stats should be gone after eviction")
	}
}

func TestSchemaListsNeverEvicted(t *testing.T) {
	c := New(3)

	c.SetSchemas(conn, []catalog.SchemaInfo{{Name: "public", IsDefault: true}})
	c.SetTables(conn, "public", []catalog.TableInfo{{Name: "t", Schema: "public"}})
	for i := 0; i < 20; i++ {
		c.SetColumns(conn, tablePath(i), someColumns())
	}

	if _, ok := c.Schemas(conn); !ok {
		t.Error("schema list must survive detail eviction")
	}
	if _, ok := c.Tables(conn, "public"); !ok {
		t.Error("table list must survive detail eviction")
	}
}

func TestEvictionScopedPerConnection(t *testing.T) {
	c := New(5)
	other := catalog.ConnectionID("local-mysql")

	for i := 0; i < 5; i++ {
		c.SetColumns(other, tablePath(i), someColumns())
	}
	for i := 0; i < 50; i++ {
		c.SetColumns(conn, tablePath(i), someColumns())
	}

	if got := c.DetailCount(other); got != 5 {
		t.Errorf("a heavily browsed connection must not starve others: got %d", got)
	}
}

func TestClearConnection(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.SetSchemas(conn, []catalog.SchemaInfo{{Name: "public"}})
	c.SetColumns(conn, path, someColumns())
	c.ClearConnection(conn)

	if _, ok := c.Schemas(conn); ok {
		t.Error("expected schemas cleared")
	}
	if _, ok := c.Columns(conn, path); ok {
		t.Error("expected columns cleared")
	}
	if got := c.DetailCount(conn); got != 0 {
		t.Errorf("expected no detail entries, got %d", got)
	}
}

func TestClearTableStatsKeepsStructure(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.SetColumns(conn, path, someColumns())
	c.SetTableStats(conn, path, &catalog.TableStats{RowCount: 42})
	c.ClearTableStats(conn, path)

	if _, ok := c.TableStats(conn, path); ok {
		t.Error("expected stats cleared")
	}
	if _, ok := c.Columns(conn, path); !ok {
		t.Error("columns must survive a stats-only invalidation")
	}
}

func TestTableDefinitionAssembly(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.SetColumns(conn, path, someColumns())
	c.SetIndexes(conn, path, []catalog.Index{{Name: "pk", Columns: []string{"id"}, IsPrimary: true}})

	def, ok := c.TableDefinition(conn, path)
	if !ok {
		t.Fatal("expected assembled definition")
	}
	if len(def.Columns) != 1 || len(def.Indexes) != 1 {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestStatsCounters(t *testing.T) {
	c := New(0)
	path := tablePath(1)

	c.Columns(conn, path)
	c.SetColumns(conn, path, someColumns())
	c.Columns(conn, path)

	stats := c.GetStats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("expected 1 miss and 1 hit, got %+v", stats)
	}
	if stats.Details != 1 || stats.Connections != 1 {
		t.Errorf("unexpected sizes: %+v", stats)
	}
}
