// Package visibility tracks which schemas of a connection are shown in the
// catalog tree.
//
// Per connection the state is either "all visible" or an explicit non-empty
// set. Engine system schemas are hidden by default on first load, but an
// explicit user choice is sticky and never overridden afterwards.
package visibility

import (
	"sort"
	"strings"
	"sync"

	"github.com/berbicanes/queryark/catalog"
)

// systemSchemas lists the engine-internal schemas hidden by default, by
// provider name.
var systemSchemas = map[string][]string{
	"postgres": {"information_schema", "pg_catalog", "pg_toast"},
	"mysql":    {"information_schema", "performance_schema", "mysql", "sys"},
	"sqlserver": {
		"information_schema", "sys", "guest",
		"db_owner", "db_accessadmin", "db_securityadmin", "db_ddladmin",
		"db_backupoperator", "db_datareader", "db_datawriter",
		"db_denydatareader", "db_denydatawriter",
	},
}

// connFilter is one connection's visibility state. visible == nil means all
// schemas are visible.
type connFilter struct {
	visible    map[string]bool
	customized bool
}

// Filter holds per-connection schema visibility. Safe for concurrent use.
type Filter struct {
	mu    sync.Mutex
	conns map[catalog.ConnectionID]*connFilter
}

// New creates an empty visibility filter.
func New() *Filter {
	return &Filter{conns: make(map[catalog.ConnectionID]*connFilter)}
}

// Visible reports whether a schema is currently visible on a connection. A
// connection with no state shows everything.
func (f *Filter) Visible(conn catalog.ConnectionID, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cf, ok := f.conns[conn]
	if !ok || cf.visible == nil {
		return true
	}
	return cf.visible[name]
}

// VisibleSchemas filters a known schema list down to the visible subset,
// preserving order.
func (f *Filter) VisibleSchemas(conn catalog.ConnectionID, known []catalog.SchemaInfo) []catalog.SchemaInfo {
	f.mu.Lock()
	cf, ok := f.conns[conn]
	f.mu.Unlock()

	if !ok || cf.visible == nil {
		return known
	}
	var out []catalog.SchemaInfo
	for _, s := range known {
		if cf.visible[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

// Toggle flips the visibility of one schema. allKnown is the full schema
// list of the connection. Returns false when the toggle is rejected: hiding
// the last visible schema is a no-op since at least one schema must stay
// visible.
func (f *Filter) Toggle(conn catalog.ConnectionID, name string, allKnown []string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cf, ok := f.conns[conn]
	if !ok {
		cf = &connFilter{}
		f.conns[conn] = cf
	}

	if cf.visible == nil {
		// "all" -> "all except name". A single known schema can never be
		// hidden.
		if len(allKnown) <= 1 {
			return false
		}
		cf.visible = make(map[string]bool, len(allKnown)-1)
		for _, s := range allKnown {
			if s != name {
				cf.visible[s] = true
			}
		}
		cf.customized = true
		return true
	}

	if cf.visible[name] {
		if len(cf.visible) == 1 {
			return false
		}
		delete(cf.visible, name)
	} else {
		cf.visible[name] = true
		// Explicit set equal to the full known set collapses back to "all".
		if len(cf.visible) == len(allKnown) {
			all := true
			for _, s := range allKnown {
				if !cf.visible[s] {
					all = false
					break
				}
			}
			if all {
				cf.visible = nil
			}
		}
	}
	cf.customized = true
	return true
}

// ApplyDefaults hides the provider's system schemas on a connection that the
// user has not customized yet. Called once after the first schema load; a
// later call on a customized connection does nothing.
func (f *Filter) ApplyDefaults(conn catalog.ConnectionID, provider string, allKnown []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cf, ok := f.conns[conn]
	if ok && cf.customized {
		return
	}
	if !ok {
		cf = &connFilter{}
		f.conns[conn] = cf
	}

	hidden := make(map[string]bool)
	for _, s := range systemSchemas[provider] {
		hidden[s] = true
	}

	visible := make(map[string]bool)
	for _, s := range allKnown {
		if !hidden[strings.ToLower(s)] {
			visible[s] = true
		}
	}
	// Hiding everything would leave an unusable tree; fall back to "all".
	if len(visible) == 0 || len(visible) == len(allKnown) {
		cf.visible = nil
		return
	}
	cf.visible = visible
}

// Clear drops the visibility state of a connection.
func (f *Filter) Clear(conn catalog.ConnectionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, conn)
}

// Hidden returns the sorted list of currently hidden schemas on a
// connection, given the full known list.
func (f *Filter) Hidden(conn catalog.ConnectionID, allKnown []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	cf, ok := f.conns[conn]
	if !ok || cf.visible == nil {
		return nil
	}
	var hidden []string
	for _, s := range allKnown {
		if !cf.visible[s] {
			hidden = append(hidden, s)
		}
	}
	sort.Strings(hidden)
	return hidden
}
