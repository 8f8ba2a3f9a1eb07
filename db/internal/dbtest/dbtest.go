// Package dbtest contains the shared conformance suite run against every
// db.Database implementation.
package dbtest

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/trustledger/db"
)

// TestWriteTx runs the write transaction conformance checks.
func TestWriteTx(t *testing.T, database db.Database) {
	wTx := database.WriteTx()

	if _, err := wTx.Get([]byte("a")); err != db.ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	qt.Assert(t, wTx.Set([]byte("a"), []byte("b")), qt.IsNil)

	v, err := wTx.Get([]byte("a"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(v), qt.Equals, "b")

	// pending writes are invisible outside the tx until commit
	_, err = database.Get([]byte("a"))
	qt.Assert(t, err, qt.Equals, db.ErrKeyNotFound)

	qt.Assert(t, wTx.Commit(), qt.IsNil)

	v, err = database.Get([]byte("a"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(v), qt.Equals, "b")

	// a discarded tx leaves the database untouched
	wTx = database.WriteTx()
	qt.Assert(t, wTx.Set([]byte("a"), []byte("one")), qt.IsNil)
	qt.Assert(t, wTx.Delete([]byte("a")), qt.IsNil)
	wTx.Discard()

	v, err = database.Get([]byte("a"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(v), qt.Equals, "b")

	// deletes take effect on commit
	wTx = database.WriteTx()
	qt.Assert(t, wTx.Delete([]byte("a")), qt.IsNil)
	qt.Assert(t, wTx.Commit(), qt.IsNil)
	_, err = database.Get([]byte("a"))
	qt.Assert(t, err, qt.Equals, db.ErrKeyNotFound)
}

// TestIterate runs the prefix iteration conformance checks.
func TestIterate(t *testing.T, database db.Database) {
	wTx := database.WriteTx()
	for i := 0; i < 10; i++ {
		qt.Assert(t, wTx.Set(fmt.Appendf(nil, "p/%d", i), []byte{byte(i)}), qt.IsNil)
	}
	qt.Assert(t, wTx.Set([]byte("q/0"), []byte{0xff}), qt.IsNil)
	qt.Assert(t, wTx.Commit(), qt.IsNil)

	var keys []string
	err := database.Iterate([]byte("p/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, keys, qt.HasLen, 10)

	// early stop
	count := 0
	err = database.Iterate([]byte("p/"), func(k, v []byte) bool {
		count++
		return count < 3
	})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, count, qt.Equals, 3)
}
