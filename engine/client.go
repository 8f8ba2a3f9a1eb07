package engine

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/types"
)

// EncryptInput is the client-side encoder: it seals a plaintext score under
// the system public key and builds the binding proof that ties the
// ciphertext to this system instance and to the submitting user. The
// returned byte slices are what recordEvent expects on the wire.
func EncryptInput(systemKey ecc.Point, score uint64, submitter types.UserKey) (ciphertext, proof []byte, err error) {
	if score > maxPlaintext {
		return nil, nil, fmt.Errorf("score %d exceeds the %d-bit width", score, types.ScoreBitWidth)
	}
	k, err := elgamal.RandK(systemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("sample encryption nonce: %w", err)
	}
	ct, err := elgamal.NewCiphertext(systemKey).Encrypt(new(big.Int).SetUint64(score), systemKey, k)
	if err != nil {
		return nil, nil, fmt.Errorf("encrypt score: %w", err)
	}
	p, err := elgamal.BuildEncryptionProof(k, systemKey, ct.C1, ct.C2, submitter.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("build encryption proof: %w", err)
	}
	if ciphertext, err = ct.Serialize(); err != nil {
		return nil, nil, fmt.Errorf("serialize ciphertext: %w", err)
	}
	if proof, err = p.Serialize(); err != nil {
		return nil, nil, fmt.Errorf("serialize proof: %w", err)
	}
	return ciphertext, proof, nil
}
