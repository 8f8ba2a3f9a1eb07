package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/db/prefixeddb"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/types"
)

// ErrCapacityReached is returned when a user history is already at
// MaxTrustEvents.
var ErrCapacityReached = errors.New("trust history capacity reached")

// Handle roles, hashed into the handle so the three ciphertexts produced by
// one append never collide.
const (
	roleEvent   = "event"
	roleTotal   = "total"
	roleAverage = "average"
)

// TrustRecord is the whole per-user state, stored as a single artifact so
// it can only advance as a unit.
type TrustRecord struct {
	History      []types.Handle `cbor:"history"`
	Total        types.Handle   `cbor:"total"`
	Average      types.Handle   `cbor:"average"`
	EventCount   uint32         `cbor:"eventCount"`
	LastActivity int64          `cbor:"lastActivity"`
}

// Statistics derives the plaintext statistics tuple of the record.
func (r *TrustRecord) Statistics() types.Statistics {
	return types.Statistics{
		EventCount:   r.EventCount,
		LastActivity: r.LastActivity,
		HasData:      r.EventCount > 0,
	}
}

// AppendResult reports the handles produced by one append.
type AppendResult struct {
	Index   uint32       `json:"index"`
	Event   types.Handle `json:"event"`
	Total   types.Handle `json:"total"`
	Average types.Handle `json:"average"`
}

// ComputeHandle derives the opaque handle of a ciphertext from the owning
// user, the history index at production time, the role of the value and its
// canonical serialization.
func ComputeHandle(user types.UserKey, index uint32, role string, ciphertext []byte) types.Handle {
	h := sha256.New()
	h.Write(user.Bytes())
	h.Write(binary.BigEndian.AppendUint32(nil, index))
	h.Write([]byte(role))
	h.Write(ciphertext)
	return types.Handle(h.Sum(nil))
}

// TrustRecord loads the record of a user. Returns ErrNotFound for a user
// that never recorded an event.
func (s *Storage) TrustRecord(user types.UserKey) (*TrustRecord, error) {
	r := new(TrustRecord)
	if err := s.getArtifact(trustRecordPrefix, user.Bytes(), r); err != nil {
		return nil, err
	}
	return r, nil
}

// AppendEvent pushes a validated ciphertext and the folded aggregates into
// the user's record. In one write transaction it stores the three
// ciphertexts in the arena, advances the record, grants decrypt capability
// on each new handle to the system and to the user, and refreshes the
// statistics snapshot. The caller supplies the already folded total and
// average; their handles replace the previous ones in the record (old
// aggregate handles stay resolvable in the arena with their grants).
func (s *Storage) AppendEvent(
	user types.UserKey,
	event, total, average *elgamal.Ciphertext,
) (*AppendResult, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	record := new(TrustRecord)
	if err := s.getArtifact(trustRecordPrefix, user.Bytes(), record); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		record = &TrustRecord{}
	}
	if record.EventCount >= types.MaxTrustEvents {
		return nil, ErrCapacityReached
	}
	index := record.EventCount

	eventBytes, err := event.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize event ciphertext: %w", err)
	}
	totalBytes, err := total.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize total ciphertext: %w", err)
	}
	averageBytes, err := average.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize average ciphertext: %w", err)
	}

	result := &AppendResult{
		Index:   index,
		Event:   ComputeHandle(user, index, roleEvent, eventBytes),
		Total:   ComputeHandle(user, index, roleTotal, totalBytes),
		Average: ComputeHandle(user, index, roleAverage, averageBytes),
	}

	record.History = append(record.History, result.Event)
	record.Total = result.Total
	record.Average = result.Average
	record.EventCount++
	record.LastActivity = time.Now().Unix()

	wTx := s.db.WriteTx()
	defer wTx.Discard()

	arena := prefixeddb.NewPrefixedWriteTx(wTx, ciphertextPrefix)
	for handle, data := range map[string][]byte{
		string(result.Event):   eventBytes,
		string(result.Total):   totalBytes,
		string(result.Average): averageBytes,
	} {
		if err := arena.Set([]byte(handle), data); err != nil {
			return nil, fmt.Errorf("store ciphertext: %w", err)
		}
	}

	principals := []types.Principal{types.SystemPrincipal, types.PrincipalFromUser(user)}
	for _, handle := range []types.Handle{result.Event, result.Total, result.Average} {
		for _, p := range principals {
			if err := s.grantTx(wTx, handle, p); err != nil {
				return nil, fmt.Errorf("grant capability: %w", err)
			}
		}
	}

	records := prefixeddb.NewPrefixedWriteTx(wTx, trustRecordPrefix)
	if err := s.setArtifactTx(records, user.Bytes(), record); err != nil {
		return nil, fmt.Errorf("store trust record: %w", err)
	}
	if err := s.setStatsTx(wTx, user, record.Statistics()); err != nil {
		return nil, fmt.Errorf("store statistics snapshot: %w", err)
	}

	if err := wTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	s.cache.Add(cacheKey(result.Event), event)
	s.cache.Add(cacheKey(result.Total), total)
	s.cache.Add(cacheKey(result.Average), average)

	log.Debugw("trust event appended",
		"user", user.String(),
		"index", index,
		"eventCount", record.EventCount,
	)
	return result, nil
}

// Ciphertext resolves a handle to its ciphertext via the arena.
func (s *Storage) Ciphertext(handle types.Handle) (*elgamal.Ciphertext, error) {
	if ct, ok := s.cache.Get(cacheKey(handle)); ok {
		return ct.(*elgamal.Ciphertext), nil
	}
	data, err := prefixeddb.NewPrefixedReader(s.db, ciphertextPrefix).Get(handle)
	if err != nil {
		return nil, ErrNotFound
	}
	ct, err := elgamal.DeserializeCiphertext(data)
	if err != nil {
		return nil, fmt.Errorf("corrupt ciphertext for handle %s: %w", handle.String(), err)
	}
	s.cache.Add(cacheKey(handle), ct)
	return ct, nil
}

func cacheKey(handle types.Handle) string {
	return "ct/" + string(handle)
}
