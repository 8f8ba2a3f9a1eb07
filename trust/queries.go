package trust

import (
	"errors"

	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/types"
)

// The query layer. Aggregate lookups on a never-active but validly
// addressed user return the empty sentinel ("no data yet"); the reserved
// all-zero key always fails ErrInvalidAddress; index and range lookups are
// bounds-checked against the authoritative event count.

// record loads the user's record, mapping the reserved key to
// ErrInvalidAddress and a never-active user to a nil record.
func (s *Service) record(user types.UserKey) (*storage.TrustRecord, error) {
	if user.IsZero() {
		return nil, ErrInvalidAddress
	}
	r, err := s.stg.TrustRecord(user)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// Total returns the handle of the encrypted running total, or the empty
// sentinel for a never-active user.
func (s *Service) Total(user types.UserKey) (types.Handle, error) {
	r, err := s.record(user)
	if err != nil || r == nil {
		return nil, err
	}
	return r.Total, nil
}

// Average returns the handle of the encrypted running average, or the
// empty sentinel for a never-active user.
func (s *Service) Average(user types.UserKey) (types.Handle, error) {
	r, err := s.record(user)
	if err != nil || r == nil {
		return nil, err
	}
	return r.Average, nil
}

// EventCount returns the plaintext number of recorded events.
func (s *Service) EventCount(user types.UserKey) (uint32, error) {
	r, err := s.record(user)
	if err != nil || r == nil {
		return 0, err
	}
	return r.EventCount, nil
}

// HistoryLength returns the length of the history, always equal to the
// event count.
func (s *Service) HistoryLength(user types.UserKey) (uint32, error) {
	return s.EventCount(user)
}

// LastActivity returns the unix timestamp of the most recent append, zero
// for a never-active user.
func (s *Service) LastActivity(user types.UserKey) (int64, error) {
	r, err := s.record(user)
	if err != nil || r == nil {
		return 0, err
	}
	return r.LastActivity, nil
}

// ByIndex returns the handle of the i-th recorded event.
func (s *Service) ByIndex(user types.UserKey, index uint32) (types.Handle, error) {
	r, err := s.record(user)
	if err != nil {
		return nil, err
	}
	if r == nil || index >= r.EventCount {
		return nil, ErrIndexOutOfBounds
	}
	return r.History[index], nil
}

// Range returns the handles of history[start:end), exactly end-start
// entries in index order.
func (s *Service) Range(user types.UserKey, start, end uint32) ([]types.Handle, error) {
	if user.IsZero() {
		return nil, ErrInvalidAddress
	}
	if start >= end {
		return nil, ErrInvalidRange
	}
	r, err := s.record(user)
	if err != nil {
		return nil, err
	}
	var length uint32
	if r != nil {
		length = r.EventCount
	}
	if end > length {
		return nil, ErrRangeOutOfBounds
	}
	out := make([]types.Handle, end-start)
	copy(out, r.History[start:end])
	return out, nil
}

// LiveStatistics derives the statistics tuple from the live record,
// opportunistically refreshes the cached snapshot and emits a
// StatisticsViewed notification.
func (s *Service) LiveStatistics(user types.UserKey) (types.Statistics, error) {
	r, err := s.record(user)
	if err != nil {
		return types.Statistics{}, err
	}
	var stats types.Statistics
	if r != nil {
		stats = r.Statistics()
	}
	if err := s.stg.RefreshStatistics(user, stats); err != nil {
		log.Warnw("statistics snapshot refresh failed", "user", user.String(), "error", err.Error())
	}
	s.notifier.StatisticsViewed(user, stats)
	return stats, nil
}

// CachedStatistics decodes the packed snapshot without side effects. It
// may be stale relative to LiveStatistics.
func (s *Service) CachedStatistics(user types.UserKey) (types.Statistics, error) {
	if user.IsZero() {
		return types.Statistics{}, ErrInvalidAddress
	}
	return s.stg.CachedStatistics(user)
}
