package config

import (
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	AppFs = afero.NewMemMapFs()
	t.Setenv("HOME", "/home/tester")
	homedir.DisableCache = true

	cfg := &Config{
		Connections: []Connection{
			{Name: "prod", Provider: "postgres", DSN: "postgres://prod/db", Version: "15.2"},
			{Name: "local", Provider: "sqlite", DSN: "local.db", Hidden: []string{"temp"}},
		},
		MaxCachedTables: 50,
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(loaded.Connections))
	}
	prod, err := loaded.Connection("prod")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if prod.Provider != "postgres" || prod.DSN != "postgres://prod/db" || prod.Version != "15.2" {
		t.Errorf("round trip lost fields: %+v", prod)
	}
	local, err := loaded.Connection("local")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(local.Hidden) != 1 || local.Hidden[0] != "temp" {
		t.Errorf("hidden schemas not persisted: %+v", local.Hidden)
	}
	if loaded.MaxCachedTables != 50 {
		t.Errorf("max_cached_tables: %d", loaded.MaxCachedTables)
	}

	if _, err := loaded.Connection("missing"); err == nil {
		t.Error("expected error for unknown connection")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	AppFs = afero.NewMemMapFs()
	t.Setenv("HOME", "/home/tester")
	homedir.DisableCache = true

	cfg, err := Load()
	if err != nil {
		t.Fatalf("a missing registry is not an error: %v", err)
	}
	if len(cfg.Connections) != 0 {
		t.Errorf("expected empty registry, got %+v", cfg.Connections)
	}
}
