package storage

import (
	"bytes"
	"errors"

	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/prefixeddb"
	"github.com/vocdoni/trustledger/types"
)

// The capability directory is an append-only relation
// (handle, principal) → may_decrypt. Grants are issued in the same
// transaction that produces the ciphertext they protect and are never
// revoked.

// grantKey is handle || principal. Handles have a fixed length, so the
// principal suffix is unambiguous.
func grantKey(handle types.Handle, principal types.Principal) []byte {
	k := make([]byte, 0, len(handle)+len(principal))
	k = append(k, handle...)
	return append(k, principal.Bytes()...)
}

// grantTx issues a decrypt grant inside an already open transaction.
func (s *Storage) grantTx(wTx db.WriteTx, handle types.Handle, principal types.Principal) error {
	acl := prefixeddb.NewPrefixedWriteTx(wTx, capabilityPrefix)
	return acl.Set(grantKey(handle, principal), []byte{1})
}

// Grant issues a decrypt grant on a handle in its own transaction.
func (s *Storage) Grant(handle types.Handle, principal types.Principal) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := s.grantTx(wTx, handle, principal); err != nil {
		return err
	}
	return wTx.Commit()
}

// MayDecrypt reports whether a principal holds a decrypt grant on a handle.
func (s *Storage) MayDecrypt(handle types.Handle, principal types.Principal) (bool, error) {
	_, err := prefixeddb.NewPrefixedReader(s.db, capabilityPrefix).Get(grantKey(handle, principal))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Grants lists the principals holding a decrypt grant on a handle.
func (s *Storage) Grants(handle types.Handle) ([]types.Principal, error) {
	var principals []types.Principal
	err := prefixeddb.NewPrefixedReader(s.db, capabilityPrefix).Iterate(handle, func(k, _ []byte) bool {
		if len(k) <= len(handle) || !bytes.HasPrefix(k, handle) {
			return true
		}
		principals = append(principals, types.Principal(bytes.Clone(k[len(handle):])))
		return true
	})
	if err != nil {
		return nil, err
	}
	return principals, nil
}
