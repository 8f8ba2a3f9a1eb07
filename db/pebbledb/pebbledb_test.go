package pebbledb

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/internal/dbtest"
)

func TestWriteTx(t *testing.T) {
	database, err := New(db.Options{Path: t.TempDir()})
	qt.Assert(t, err, qt.IsNil)
	defer func() { qt.Assert(t, database.Close(), qt.IsNil) }()

	dbtest.TestWriteTx(t, database)
}

func TestIterate(t *testing.T) {
	database, err := New(db.Options{Path: t.TempDir()})
	qt.Assert(t, err, qt.IsNil)
	defer func() { qt.Assert(t, database.Close(), qt.IsNil) }()

	dbtest.TestIterate(t, database)
}
