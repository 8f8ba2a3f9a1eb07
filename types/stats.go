package types

import "github.com/holiman/uint256"

// Statistics is the plaintext statistics tuple of one user history.
type Statistics struct {
	EventCount   uint32 `json:"eventCount"`
	LastActivity int64  `json:"lastActivity"`
	HasData      bool   `json:"hasData"`
}

// Packed statistics snapshot wire layout, one unsigned 256-bit word:
//
//	bits [0:32)   event count
//	bits [32:64)  last-activity unix timestamp (truncated to 32 bits)
//	bit  64       has-data flag
//	bits (64:256) reserved, zero
const (
	statsTimestampShift = 32
	statsHasDataBit     = 64
)

// Pack encodes the statistics tuple into the single-word snapshot layout.
func (s Statistics) Pack() *uint256.Int {
	w := uint256.NewInt(uint64(s.EventCount))
	ts := uint256.NewInt(uint64(uint32(s.LastActivity)))
	w.Or(w, ts.Lsh(ts, statsTimestampShift))
	if s.HasData {
		bit := uint256.NewInt(1)
		w.Or(w, bit.Lsh(bit, statsHasDataBit))
	}
	return w
}

// UnpackStatistics decodes a packed snapshot word back into the tuple.
func UnpackStatistics(w *uint256.Int) Statistics {
	if w == nil {
		return Statistics{}
	}
	low := w.Uint64()
	bit := new(uint256.Int).Rsh(w, statsHasDataBit)
	return Statistics{
		EventCount:   uint32(low),
		LastActivity: int64(uint32(low >> statsTimestampShift)),
		HasData:      bit.Uint64()&1 == 1,
	}
}
