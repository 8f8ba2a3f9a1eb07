// Package db defines the key-value database interfaces used by the
// trustledger storage layer, together with the options shared by the
// available implementations (pebble-backed and in-memory).
package db

import "errors"

var (
	// ErrKeyNotFound is returned when the key does not exist in the database.
	ErrKeyNotFound = errors.New("key not found")
	// ErrConflict is returned when a write transaction cannot be committed
	// because of a conflicting concurrent write.
	ErrConflict = errors.New("transaction conflict")
)

// Options contains the configuration for creating a database.
type Options struct {
	Path string
}

// Reader is the read access part of a database or transaction.
type Reader interface {
	// Get retrieves the value for the given key. Returns ErrKeyNotFound if
	// the key does not exist.
	Get(key []byte) ([]byte, error)
	// Iterate calls callback for every key-value pair with the given
	// prefix, in lexicographic key order, until callback returns false.
	// Keys and values are only valid for the duration of the callback.
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
}

// WriteTx is a write transaction. All writes are buffered and applied
// atomically on Commit. A transaction must end with either Commit or
// Discard; Discard after Commit is a no-op.
type WriteTx interface {
	Reader
	// Set adds or updates a key-value pair in the transaction.
	Set(key, value []byte) error
	// Delete removes a key from the transaction.
	Delete(key []byte) error
	// Apply copies every pending write of the other transaction into this
	// one.
	Apply(other WriteTx) error
	// Commit applies all pending writes to the database atomically.
	Commit() error
	// Discard drops all pending writes.
	Discard()
}

// Database is a persistent key-value store with atomic write transactions.
type Database interface {
	Reader
	// WriteTx creates a new write transaction.
	WriteTx() WriteTx
	// Close closes the database.
	Close() error
	// Compact performs a database compaction, if supported.
	Compact() error
}
