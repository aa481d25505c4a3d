package loader

import (
	"errors"
	"testing"
)

func TestNewProviderMapping(t *testing.T) {
	if l, err := New(nil, "PostgreSQL"); err != nil {
		t.Fatalf("postgresql: %v", err)
	} else if _, ok := l.(*PostgresLoader); !ok {
		t.Errorf("postgresql: got %T", l)
	}
	if l, err := New(nil, "mariadb"); err != nil {
		t.Fatalf("mariadb: %v", err)
	} else if _, ok := l.(*MySQLLoader); !ok {
		t.Errorf("mariadb: got %T", l)
	}
	if l, err := New(nil, "sqlite3"); err != nil {
		t.Fatalf("sqlite3: %v", err)
	} else if _, ok := l.(*SQLiteLoader); !ok {
		t.Errorf("sqlite3: got %T", l)
	}

	if _, err := New(nil, "oracle"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
	if _, err := Open("oracle", "dsn"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}
