package trust

import (
	"errors"
	"fmt"

	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/types"
)

// Error taxonomy of the trust service. Every validation failure surfaces
// synchronously as one of these named errors, never coerced to a default
// value. The two designed soft defaults (aggregate lookups on a
// never-active valid key) return the empty sentinel instead.
var (
	// ErrInvalidAddress is returned when the reserved all-zero user key is
	// used where per-user storage is indexed.
	ErrInvalidAddress = errors.New("reserved invalid user key")

	// ErrEmptyProof is returned when proof material of zero length reaches
	// the record entry point.
	ErrEmptyProof = errors.New("empty proof material")

	// ErrInvalidProof is returned when proof material fails verification.
	ErrInvalidProof = engine.ErrInvalidProof

	// ErrCapacityExceeded is returned when a history is already at the
	// MaxTrustEvents hard cap.
	ErrCapacityExceeded = errors.New("trust history capacity exceeded")

	// ErrIndexOutOfBounds is returned for index lookups beyond the history
	// length.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidRange is returned when a range query has start >= end.
	ErrInvalidRange = errors.New("invalid range: start must be below end")

	// ErrRangeOutOfBounds is returned when a range query ends beyond the
	// history length.
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrBatchSizeInvalid is the base failure of the two layered batch
	// size limits and of mismatched input arrays.
	ErrBatchSizeInvalid = errors.New("batch size invalid")

	// ErrBatchSizeBusiness carries the tighter business-rule message.
	ErrBatchSizeBusiness = fmt.Errorf("%w: size must be between %d and %d",
		ErrBatchSizeInvalid, 1, types.MaxBatchSize)

	// ErrBatchAbsoluteCap carries the absolute hard-cap message.
	ErrBatchAbsoluteCap = fmt.Errorf("%w: size exceeds the absolute cap of %d",
		ErrBatchSizeInvalid, types.AbsMaxBatchSize)

	// ErrCapabilityDenied is returned when a decrypt is attempted without
	// a grant.
	ErrCapabilityDenied = engine.ErrCapabilityDenied
)
