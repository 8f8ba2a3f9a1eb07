package inmemory

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/internal/dbtest"
)

func TestWriteTx(t *testing.T) {
	database, err := New(db.Options{})
	qt.Assert(t, err, qt.IsNil)

	dbtest.TestWriteTx(t, database)
}

func TestIterate(t *testing.T) {
	database, err := New(db.Options{})
	qt.Assert(t, err, qt.IsNil)

	dbtest.TestIterate(t, database)
}

func TestConflict(t *testing.T) {
	database, err := New(db.Options{})
	qt.Assert(t, err, qt.IsNil)

	tx1 := database.WriteTx()
	tx2 := database.WriteTx()
	qt.Assert(t, tx1.Set([]byte("k"), []byte("1")), qt.IsNil)
	qt.Assert(t, tx2.Set([]byte("k"), []byte("2")), qt.IsNil)
	qt.Assert(t, tx1.Commit(), qt.IsNil)
	qt.Assert(t, tx2.Commit(), qt.Equals, db.ErrConflict)
}
