// Package metadb selects a db.Database implementation by type name.
package metadb

import (
	"fmt"
	"testing"

	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/inmemory"
	"github.com/vocdoni/trustledger/db/pebbledb"
)

const (
	// TypePebble selects the persistent pebble backend.
	TypePebble = "pebble"
	// TypeInMemory selects the ephemeral in-memory backend.
	TypeInMemory = "inmemory"
)

// New creates a database of the given type rooted at dir.
func New(typ, dir string) (db.Database, error) {
	switch typ {
	case TypePebble:
		return pebbledb.New(db.Options{Path: dir})
	case TypeInMemory:
		return inmemory.New(db.Options{Path: dir})
	default:
		return nil, fmt.Errorf("invalid database type: %q", typ)
	}
}

// NewTest returns a pebble database in a temporary directory, closed
// automatically when the test finishes.
func NewTest(tb testing.TB) db.Database {
	database, err := New(TypePebble, tb.TempDir())
	if err != nil {
		tb.Fatalf("metadb.New: %v", err)
	}
	tb.Cleanup(func() {
		if err := database.Close(); err != nil {
			tb.Error(err)
		}
	})
	return database
}
