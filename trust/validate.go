package trust

import (
	"fmt"

	"github.com/vocdoni/trustledger/types"
)

// ValidateBatch checks a batch of candidate scores for membership in the
// inclusive [MinScore, MaxScore] range, one boolean per input. Each proof
// must pass the verifier before its value is range-checked; a failing
// proof yields false at its position, never an error. The range comparison
// happens inside the engine gate, so only booleans leave this call.
func (s *Service) ValidateBatch(submitter types.UserKey, ciphertexts, proofs [][]byte) ([]bool, error) {
	if submitter.IsZero() {
		return nil, ErrInvalidAddress
	}
	if len(ciphertexts) != len(proofs) {
		return nil, fmt.Errorf("%w: %d ciphertexts but %d proofs",
			ErrBatchSizeInvalid, len(ciphertexts), len(proofs))
	}
	n := len(ciphertexts)
	if n == 0 || n > types.MaxBatchSize {
		if n > types.AbsMaxBatchSize {
			return nil, ErrBatchAbsoluteCap
		}
		return nil, ErrBatchSizeBusiness
	}

	results := make([]bool, n)
	for i := range ciphertexts {
		ct, err := s.eng.VerifyInput(ciphertexts[i], proofs[i], submitter)
		if err != nil {
			continue
		}
		ok, err := s.eng.InRange(ct, types.MinScore, types.MaxScore)
		if err != nil {
			return nil, fmt.Errorf("range check at position %d: %w", i, err)
		}
		results[i] = ok
	}
	return results, nil
}
