// Package prefixeddb wraps a db.Database so that all keys are transparently
// namespaced under a fixed prefix. It is used by the storage layer to keep
// independent artifact families in a single underlying database.
package prefixeddb

import (
	"bytes"

	"github.com/vocdoni/trustledger/db"
)

// PrefixedDatabase wraps a database, prepending a prefix to all keys.
type PrefixedDatabase struct {
	db     db.Database
	prefix []byte
}

// NewPrefixedDatabase returns a database which prefixes all keys.
func NewPrefixedDatabase(database db.Database, prefix []byte) *PrefixedDatabase {
	return &PrefixedDatabase{db: database, prefix: bytes.Clone(prefix)}
}

func (d *PrefixedDatabase) Get(key []byte) ([]byte, error) {
	return d.db.Get(prefixKey(d.prefix, key))
}

func (d *PrefixedDatabase) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return iteratePrefixed(d.db, d.prefix, prefix, callback)
}

func (d *PrefixedDatabase) WriteTx() db.WriteTx {
	return NewPrefixedWriteTx(d.db.WriteTx(), d.prefix)
}

func (d *PrefixedDatabase) Close() error { return d.db.Close() }

func (d *PrefixedDatabase) Compact() error { return d.db.Compact() }

// NewPrefixedReader returns a read-only view of the database under prefix.
func NewPrefixedReader(reader db.Reader, prefix []byte) db.Reader {
	return &prefixedReader{reader: reader, prefix: bytes.Clone(prefix)}
}

type prefixedReader struct {
	reader db.Reader
	prefix []byte
}

func (r *prefixedReader) Get(key []byte) ([]byte, error) {
	return r.reader.Get(prefixKey(r.prefix, key))
}

func (r *prefixedReader) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return iteratePrefixed(r.reader, r.prefix, prefix, callback)
}

var _ db.WriteTx = (*PrefixedWriteTx)(nil)

// PrefixedWriteTx wraps a write transaction, prefixing all keys.
type PrefixedWriteTx struct {
	tx     db.WriteTx
	prefix []byte
}

// NewPrefixedWriteTx returns a write transaction which prefixes all keys.
func NewPrefixedWriteTx(tx db.WriteTx, prefix []byte) *PrefixedWriteTx {
	return &PrefixedWriteTx{tx: tx, prefix: bytes.Clone(prefix)}
}

func (t *PrefixedWriteTx) Get(key []byte) ([]byte, error) {
	return t.tx.Get(prefixKey(t.prefix, key))
}

func (t *PrefixedWriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return iteratePrefixed(t.tx, t.prefix, prefix, callback)
}

func (t *PrefixedWriteTx) Set(key, value []byte) error {
	return t.tx.Set(prefixKey(t.prefix, key), value)
}

func (t *PrefixedWriteTx) Delete(key []byte) error {
	return t.tx.Delete(prefixKey(t.prefix, key))
}

func (t *PrefixedWriteTx) Apply(other db.WriteTx) error {
	return other.Iterate(nil, func(k, v []byte) bool {
		return t.Set(k, v) == nil
	})
}

func (t *PrefixedWriteTx) Commit() error { return t.tx.Commit() }

func (t *PrefixedWriteTx) Discard() { t.tx.Discard() }

// Unwrap returns the underlying write transaction, so that several
// prefixed views can share (and commit) a single transaction.
func (t *PrefixedWriteTx) Unwrap() db.WriteTx { return t.tx }

func prefixKey(prefix, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}

func iteratePrefixed(reader db.Reader, base, prefix []byte, callback func(key, value []byte) bool) error {
	full := prefixKey(base, prefix)
	return reader.Iterate(full, func(k, v []byte) bool {
		return callback(k[len(base):], v)
	})
}
