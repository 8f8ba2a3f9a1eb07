// Package poseidon derives Fiat-Shamir challenges from sequences of field
// elements.
package poseidon

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
)

// maxWidth is the largest input count the underlying permutation accepts in
// a single call.
const maxWidth = 16

// MultiPoseidon computes the Poseidon hash of a variable number of big.Int
// inputs. Inputs beyond the permutation width are folded by hashing each
// chunk and then hashing the chunk digests together. Returns an error if no
// inputs are provided.
func MultiPoseidon(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs provided")
	}
	if len(inputs) <= maxWidth {
		return poseidon.Hash(inputs)
	}

	digests := make([]*big.Int, 0, (len(inputs)+maxWidth-1)/maxWidth)
	for i := 0; i < len(inputs); i += maxWidth {
		end := min(i+maxWidth, len(inputs))
		h, err := poseidon.Hash(inputs[i:end])
		if err != nil {
			return nil, err
		}
		digests = append(digests, h)
	}
	if len(digests) == 1 {
		return digests[0], nil
	}
	return MultiPoseidon(digests...)
}
