// Package cache provides the per-connection metadata cache.
//
// Schema-level lists (schemas, tables, routines, sequences, enums) are kept
// until the connection is cleared. Table detail (columns, indexes, foreign
// keys, stats) is bounded per connection and evicted LRU as one unit per
// table. Misses are not errors and there is no negative caching: an empty
// snapshot reads back as a miss, so a confirmed-empty table and an unloaded
// table are indistinguishable to callers.
package cache

import (
	"sync"
	"time"

	"github.com/berbicanes/queryark/catalog"
	"github.com/berbicanes/queryark/internal/debug"
)

// DefaultMaxDetails is the per-connection cap on table detail entries.
const DefaultMaxDetails = 200

// Stats represents cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Details     int
	Connections int
	Evictions   int64
}

// Cache is the session-wide metadata cache. One instance is constructed per
// session and shared by reference into every consumer (tree, diff tabs,
// palette). All methods are safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	maxDetails int
	conns      map[catalog.ConnectionID]*connState
	hits       int64
	misses     int64
	evictions  int64
}

// connState holds one connection's catalog snapshots plus the recency list
// for its detail entries. head is the most recently touched table.
type connState struct {
	schemas   []catalog.SchemaInfo
	tables    map[string][]catalog.TableInfo
	routines  map[string][]catalog.Routine
	sequences map[string][]catalog.Sequence
	enums     map[string][]catalog.EnumType

	details map[string]*detailNode
	head    *detailNode
	tail    *detailNode
}

// detailNode is one table's detail entry: the four collections that are
// always fetched together, plus eviction bookkeeping.
type detailNode struct {
	key         string
	columns     []catalog.Column
	indexes     []catalog.Index
	foreignKeys []catalog.ForeignKey
	stats       *catalog.TableStats
	accessedAt  time.Time
	prev        *detailNode
	next        *detailNode
}

// New creates a metadata cache. maxDetails is the per-connection cap on
// table detail entries; zero or negative selects DefaultMaxDetails.
func New(maxDetails int) *Cache {
	if maxDetails <= 0 {
		maxDetails = DefaultMaxDetails
	}
	return &Cache{
		maxDetails: maxDetails,
		conns:      make(map[catalog.ConnectionID]*connState),
	}
}

// Schemas returns the cached schema list for a connection.
func (c *Cache) Schemas(conn catalog.ConnectionID) ([]catalog.SchemaInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok || len(cs.schemas) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return cs.schemas, true
}

// SetSchemas replaces the schema list for a connection.
func (c *Cache) SetSchemas(conn catalog.ConnectionID, schemas []catalog.SchemaInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(conn).schemas = schemas
}

// Tables returns the cached table list of one schema.
func (c *Cache) Tables(conn catalog.ConnectionID, schema string) ([]catalog.TableInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok {
		c.misses++
		return nil, false
	}
	tables := cs.tables[schema]
	if len(tables) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return tables, true
}

// SetTables replaces the table list of one schema.
func (c *Cache) SetTables(conn catalog.ConnectionID, schema string, tables []catalog.TableInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(conn).tables[schema] = tables
}

// Routines returns the cached routine list of one schema.
func (c *Cache) Routines(conn catalog.ConnectionID, schema string) ([]catalog.Routine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok || len(cs.routines[schema]) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return cs.routines[schema], true
}

// SetRoutines replaces the routine list of one schema.
func (c *Cache) SetRoutines(conn catalog.ConnectionID, schema string, routines []catalog.Routine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(conn).routines[schema] = routines
}

// Sequences returns the cached sequence list of one schema.
func (c *Cache) Sequences(conn catalog.ConnectionID, schema string) ([]catalog.Sequence, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok || len(cs.sequences[schema]) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return cs.sequences[schema], true
}

// SetSequences replaces the sequence list of one schema.
func (c *Cache) SetSequences(conn catalog.ConnectionID, schema string, sequences []catalog.Sequence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(conn).sequences[schema] = sequences
}

// Enums returns the cached enum type list of one schema.
func (c *Cache) Enums(conn catalog.ConnectionID, schema string) ([]catalog.EnumType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok || len(cs.enums[schema]) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return cs.enums[schema], true
}

// SetEnums replaces the enum type list of one schema.
func (c *Cache) SetEnums(conn catalog.ConnectionID, schema string, enums []catalog.EnumType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(conn).enums[schema] = enums
}

// Columns returns the cached column list of one table and refreshes its
// recency.
func (c *Cache) Columns(conn catalog.ConnectionID, path catalog.CatalogPath) ([]catalog.Column, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := c.lookupDetail(conn, path)
	if node == nil || len(node.columns) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return node.columns, true
}

// SetColumns replaces the column list of one table.
func (c *Cache) SetColumns(conn catalog.ConnectionID, path catalog.CatalogPath, columns []catalog.Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchDetail(conn, path).columns = columns
	c.evictLocked(conn)
}

// Indexes returns the cached index list of one table and refreshes its
// recency.
func (c *Cache) Indexes(conn catalog.ConnectionID, path catalog.CatalogPath) ([]catalog.Index, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := c.lookupDetail(conn, path)
	if node == nil || len(node.indexes) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return node.indexes, true
}

// SetIndexes replaces the index list of one table.
func (c *Cache) SetIndexes(conn catalog.ConnectionID, path catalog.CatalogPath, indexes []catalog.Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchDetail(conn, path).indexes = indexes
	c.evictLocked(conn)
}

// ForeignKeys returns the cached foreign key list of one table and refreshes
// its recency.
func (c *Cache) ForeignKeys(conn catalog.ConnectionID, path catalog.CatalogPath) ([]catalog.ForeignKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := c.lookupDetail(conn, path)
	if node == nil || len(node.foreignKeys) == 0 {
		c.misses++
		return nil, false
	}
	c.hits++
	return node.foreignKeys, true
}

// SetForeignKeys replaces the foreign key list of one table.
func (c *Cache) SetForeignKeys(conn catalog.ConnectionID, path catalog.CatalogPath, fks []catalog.ForeignKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchDetail(conn, path).foreignKeys = fks
	c.evictLocked(conn)
}

// TableStats returns the cached stats of one table and refreshes its
// recency.
func (c *Cache) TableStats(conn catalog.ConnectionID, path catalog.CatalogPath) (*catalog.TableStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := c.lookupDetail(conn, path)
	if node == nil || node.stats == nil {
		c.misses++
		return nil, false
	}
	c.hits++
	return node.stats, true
}

// SetTableStats replaces the stats of one table.
func (c *Cache) SetTableStats(conn catalog.ConnectionID, path catalog.CatalogPath, stats *catalog.TableStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchDetail(conn, path).stats = stats
	c.evictLocked(conn)
}

// TableDefinition assembles the structural snapshot of one table from the
// cached collections. ok is false unless at least the column list is cached.
func (c *Cache) TableDefinition(conn catalog.ConnectionID, path catalog.CatalogPath) (catalog.TableDefinition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := c.lookupDetail(conn, path)
	if node == nil || len(node.columns) == 0 {
		c.misses++
		return catalog.TableDefinition{}, false
	}
	c.hits++
	return catalog.TableDefinition{
		Columns:     node.columns,
		Indexes:     node.indexes,
		ForeignKeys: node.foreignKeys,
	}, true
}

// Evict enforces the detail cap for one connection, dropping least recently
// touched tables until the count is back at the cap. Dropping a table
// removes columns, indexes, foreign keys and stats together.
func (c *Cache) Evict(conn catalog.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(conn)
}

// ClearConnection drops all catalog and access-order state for a connection.
func (c *Cache) ClearConnection(conn catalog.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.conns[conn]; ok {
		delete(c.conns, conn)
		debug.Debug("metadata cache cleared", "connection", string(conn))
	}
}

// ClearTableStats drops only the stats entry of one table, forcing a
// re-fetch of row counts after DDL without discarding columns or indexes.
func (c *Cache) ClearTableStats(conn catalog.ConnectionID, path catalog.CatalogPath) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok {
		return
	}
	if node, ok := cs.details[path.Key()]; ok {
		node.stats = nil
	}
}

// DetailCount returns the number of table detail entries held for a
// connection.
func (c *Cache) DetailCount(conn catalog.ConnectionID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.conns[conn]
	if !ok {
		return 0
	}
	return len(cs.details)
}

// GetStats returns cache counters across all connections.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Connections: len(c.conns),
	}
	for _, cs := range c.conns {
		stats.Details += len(cs.details)
	}
	return stats
}

// state returns the connection's state, creating it on first use. Detail
// entries never exist without their owning connection entry.
func (c *Cache) state(conn catalog.ConnectionID) *connState {
	cs, ok := c.conns[conn]
	if !ok {
		cs = &connState{
			tables:    make(map[string][]catalog.TableInfo),
			routines:  make(map[string][]catalog.Routine),
			sequences: make(map[string][]catalog.Sequence),
			enums:     make(map[string][]catalog.EnumType),
			details:   make(map[string]*detailNode),
		}
		c.conns[conn] = cs
	}
	return cs
}

// lookupDetail finds a detail node and moves it to the front of the recency
// list. Returns nil on miss.
func (c *Cache) lookupDetail(conn catalog.ConnectionID, path catalog.CatalogPath) *detailNode {
	cs, ok := c.conns[conn]
	if !ok {
		return nil
	}
	node, ok := cs.details[path.Key()]
	if !ok {
		return nil
	}
	cs.moveToFront(node)
	node.accessedAt = time.Now()
	return node
}

// touchDetail finds or creates the detail node for a table and refreshes its
// recency.
func (c *Cache) touchDetail(conn catalog.ConnectionID, path catalog.CatalogPath) *detailNode {
	cs := c.state(conn)
	key := path.Key()

	node, ok := cs.details[key]
	if !ok {
		node = &detailNode{key: key}
		cs.details[key] = node
		cs.addToFront(node)
	} else {
		cs.moveToFront(node)
	}
	node.accessedAt = time.Now()
	return node
}

// evictLocked drops least recently touched detail entries until the
// connection is back at the cap. Never removes more than the excess.
func (c *Cache) evictLocked(conn catalog.ConnectionID) {
	cs, ok := c.conns[conn]
	if !ok {
		return
	}
	for len(cs.details) > c.maxDetails {
		victim := cs.tail
		if victim == nil {
			return
		}
		cs.remove(victim)
		delete(cs.details, victim.key)
		c.evictions++
		debug.Debug("evicted table detail", "connection", string(conn), "table", victim.key)
	}
}

func (cs *connState) addToFront(node *detailNode) {
	if cs.head == nil {
		cs.head = node
		cs.tail = node
		return
	}
	node.next = cs.head
	cs.head.prev = node
	cs.head = node
}

func (cs *connState) moveToFront(node *detailNode) {
	if node == cs.head {
		return
	}
	cs.remove(node)
	node.prev = nil
	node.next = nil
	cs.addToFront(node)
}

func (cs *connState) remove(node *detailNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		cs.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		cs.tail = node.prev
	}
}
