// Package trust is the service facade of the trust ledger: the record
// entry point, the query layer, the batch validity check and notification
// fanout. It orchestrates the homomorphic engine and the storage layer;
// it never touches plaintext scores itself.
//
// The host environment is expected to serialize mutating calls for a given
// user; the service adds no per-user locking beyond the storage layer's
// own transaction.
package trust

import (
	"errors"
	"fmt"

	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/types"
)

// Service wires the engine and the storage into the external operations.
type Service struct {
	stg      *storage.Storage
	eng      *engine.Engine
	notifier Notifier
}

// New creates the trust service. A nil notifier falls back to the logging
// notifier.
func New(stg *storage.Storage, eng *engine.Engine, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{stg: stg, eng: eng, notifier: notifier}
}

// Storage exposes the storage layer for the system-side reveal service.
func (s *Service) Storage() *storage.Storage {
	return s.stg
}

// Engine exposes the homomorphic engine.
func (s *Service) Engine() *engine.Engine {
	return s.eng
}

// RecordEvent is the single mutating entry point. It verifies the proof
// binding, folds the ciphertext into the running aggregates and appends it
// to the user's history in one atomic storage transaction. On success it
// emits TrustEventRecorded and ScoreQueried notifications and returns the
// handles produced by the append.
func (s *Service) RecordEvent(user types.UserKey, ciphertext, proof []byte) (*storage.AppendResult, error) {
	if len(proof) == 0 {
		return nil, ErrEmptyProof
	}
	if user.IsZero() {
		return nil, ErrInvalidAddress
	}
	ct, err := s.eng.VerifyInput(ciphertext, proof, user)
	if err != nil {
		log.Warnw("record rejected", "user", user.String(), "error", err.Error())
		return nil, err
	}

	var total *elgamal.Ciphertext
	var count uint32
	record, err := s.stg.TrustRecord(user)
	switch {
	case err == nil:
		if record.EventCount >= types.MaxTrustEvents {
			return nil, ErrCapacityExceeded
		}
		count = record.EventCount
		if total, err = s.stg.Ciphertext(record.Total); err != nil {
			return nil, fmt.Errorf("resolve current total: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		// first event of this user, aggregate state is created lazily
	default:
		return nil, fmt.Errorf("load trust record: %w", err)
	}

	newTotal, newAverage, err := s.eng.Fold(total, ct, count+1)
	if err != nil {
		return nil, fmt.Errorf("fold aggregates: %w", err)
	}

	result, err := s.stg.AppendEvent(user, ct, newTotal, newAverage)
	if err != nil {
		if errors.Is(err, storage.ErrCapacityReached) {
			return nil, ErrCapacityExceeded
		}
		return nil, fmt.Errorf("append event: %w", err)
	}

	s.notifier.TrustEventRecorded(user, result.Index+1)
	s.notifier.ScoreQueried(user, OperationRecord)
	return result, nil
}
