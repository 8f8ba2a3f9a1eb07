package storage

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vocdoni/trustledger/db"
	"github.com/vocdoni/trustledger/db/prefixeddb"
	"github.com/vocdoni/trustledger/types"
)

// setStatsTx writes the packed statistics snapshot of a user inside an
// already open transaction.
func (s *Storage) setStatsTx(wTx db.WriteTx, user types.UserKey, stats types.Statistics) error {
	word := stats.Pack().Bytes32()
	snap := prefixeddb.NewPrefixedWriteTx(wTx, statsPrefix)
	return snap.Set(user.Bytes(), word[:])
}

// CachedStatistics decodes the packed snapshot of a user. A user without a
// snapshot yet reports the empty tuple, not an error.
func (s *Storage) CachedStatistics(user types.UserKey) (types.Statistics, error) {
	data, err := prefixeddb.NewPrefixedReader(s.db, statsPrefix).Get(user.Bytes())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return types.Statistics{}, nil
		}
		return types.Statistics{}, err
	}
	return types.UnpackStatistics(new(uint256.Int).SetBytes(data)), nil
}

// RefreshStatistics rewrites the snapshot from the live record. Called
// opportunistically by operations that already computed live statistics;
// never required to run in lock-step with appends.
func (s *Storage) RefreshStatistics(user types.UserKey, stats types.Statistics) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := s.setStatsTx(wTx, user, stats); err != nil {
		return err
	}
	return wTx.Commit()
}
