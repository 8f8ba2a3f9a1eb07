/*
Package storage provides the persistent layer of the trust ledger node.

The storage uses a key-value database with prefixed namespaces:

  - tr/  : user key → TrustRecord (history handles, aggregate handles,
    event count, last activity)
  - ct/  : ciphertext handle → encrypted value (the ciphertext arena)
  - acl/ : handle + principal → capability grant (append-only)
  - s/   : user key → packed statistics snapshot (single 256-bit word)
  - ek/  : system encryption key pair

An append touches tr/, ct/, acl/ and s/ inside one write transaction, so
either the whole record advances or nothing does.
*/
package storage

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/prefixeddb"
	"github.com/vocdoni/trustledger/log"
)

var (
	// ErrNotFound is returned when an artifact does not exist.
	ErrNotFound = errors.New("not found")

	// Prefixes
	trustRecordPrefix   = []byte("tr/")
	ciphertextPrefix    = []byte("ct/")
	capabilityPrefix    = []byte("acl/")
	statsPrefix         = []byte("s/")
	encryptionKeyPrefix = []byte("ek/")
)

// Storage manages the trust records, the ciphertext arena, the capability
// directory and the statistics snapshots on a single keyed database.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
	cache      *lru.Cache[string, any]
}

// New creates a new Storage instance on top of the given database.
func New(database db.Database) *Storage {
	cache, err := lru.New[string, any](1000)
	if err != nil {
		log.Fatalf("failed to create LRU cache: %v", err)
	}
	return &Storage{db: database, cache: cache}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Errorw(err, "failed to close storage")
	}
}

// setArtifact stores an encoded artifact under prefix/key in its own
// transaction.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	wTx := prefixeddb.NewPrefixedDatabase(s.db, prefix).WriteTx()
	defer wTx.Discard()
	if err := s.setArtifactTx(wTx, key, artifact); err != nil {
		return err
	}
	return wTx.Commit()
}

// setArtifactTx stores an encoded artifact through an already open write
// transaction, so several artifacts can commit atomically.
func (s *Storage) setArtifactTx(wTx db.WriteTx, key []byte, artifact any) error {
	data, err := EncodeArtifact(artifact)
	if err != nil {
		return err
	}
	return wTx.Set(key, data)
}

// getArtifact retrieves an artifact and decodes it into out. Returns
// ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		return ErrNotFound
	}
	return DecodeArtifact(data, out)
}
