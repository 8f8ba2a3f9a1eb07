// -----------------------------------------------------------------------------
//  Schnorr NIZK proof of honest ElGamal encryption
//
//  Goal: prove NON-interactively that a ciphertext (C1, C2) was freshly
//  constructed by the submitter for this system instance, without revealing
//  the encryption nonce k or the plaintext.
//  The statement is knowledge of k with C1 = k*G; the Fiat-Shamir challenge
//  binds the whole public context, commitment included:
//
//      e = Poseidon(Gx, Gy, Px, Py, C1x, C1y, C2x, C2y, Ax, Ay, submitter)
//
//  where P is the system public key, A the Schnorr commitment and submitter
//  the principal that built the encryption. Replaying a proof under a
//  different system key or a different submitter changes e and the
//  verification fails; hashing A prevents picking z first and solving for
//  a commitment that satisfies the check.
//
//  Prover (BuildEncryptionProof):
//    1. Pick r <- F*
//    2. A = r*G                     (commitment)
//    3. e = H(context) mod order    (Fiat-Shamir)
//    4. z = r + e*k mod order       (response)
//  Proof is (A, z).
//
//  Verifier (VerifyEncryptionProof):
//    Recompute e and check  z*G == A + e*C1.
// -----------------------------------------------------------------------------

package elgamal

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/vocdoni/trustledger/crypto"
	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/hash/poseidon"
)

// EncryptionProofLen is the length in bytes of a serialized proof:
// the compressed commitment point followed by the 32-byte response.
const EncryptionProofLen = 64

// EncryptionProof is a Schnorr NIZK proving knowledge of the encryption
// nonce of a ciphertext, bound to a system public key and a submitter.
type EncryptionProof struct {
	A ecc.Point // = r*G       (commitment)
	Z *big.Int  // = r + e*k   (response)
}

// BuildEncryptionProof creates the NIZK for ciphertext (c1,c2) encrypted
// with nonce k under the system public key, on behalf of submitter.
func BuildEncryptionProof(
	k *big.Int,
	systemKey ecc.Point,
	c1, c2 ecc.Point,
	submitter []byte,
) (*EncryptionProof, error) {
	order := systemKey.Order()

	// sample fresh randomness r in [1, order-1]
	r, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, fmt.Errorf("failed to sample r: %v", err)
	}
	if r.Sign() == 0 {
		r = big.NewInt(1)
	}

	A := systemKey.New()
	A.ScalarBaseMult(r)

	e, err := encryptionChallenge(systemKey, c1, c2, A, submitter)
	if err != nil {
		return nil, err
	}

	// z = r + e*k mod order
	z := new(big.Int).Mul(e, k)
	z.Add(z, r)
	z.Mod(z, order)

	return &EncryptionProof{A: A, Z: z}, nil
}

// VerifyEncryptionProof checks the NIZK against the ciphertext, the system
// public key and the claimed submitter.
func VerifyEncryptionProof(
	proof *EncryptionProof,
	systemKey ecc.Point,
	c1, c2 ecc.Point,
	submitter []byte,
) bool {
	if proof == nil || proof.A == nil || proof.Z == nil {
		return false
	}
	e, err := encryptionChallenge(systemKey, c1, c2, proof.A, submitter)
	if err != nil {
		return false
	}

	// left  = z*G
	left := systemKey.New()
	left.ScalarBaseMult(proof.Z)

	// right = A + e*C1
	right := systemKey.New()
	right.ScalarMult(c1, e)
	right.Add(right, proof.A)

	return left.Equal(right)
}

// encryptionChallenge derives the Fiat-Shamir challenge from the full
// public context of the encryption, including the Schnorr commitment.
func encryptionChallenge(systemKey ecc.Point, c1, c2, commitment ecc.Point, submitter []byte) (*big.Int, error) {
	g := systemKey.New()
	g.SetGenerator()
	gx, gy := g.Point()
	px, py := systemKey.Point()
	c1x, c1y := c1.Point()
	c2x, c2y := c2.Point()
	ax, ay := commitment.Point()
	sub := new(big.Int).SetBytes(submitter)

	e, err := poseidon.MultiPoseidon(gx, gy, px, py, c1x, c1y, c2x, c2y, ax, ay, sub)
	if err != nil {
		return nil, fmt.Errorf("challenge hash: %w", err)
	}
	return crypto.BigToFF(systemKey.Order(), e), nil
}

// Serialize returns the compact byte form of the proof: A compressed
// followed by Z left-padded to 32 bytes.
func (p *EncryptionProof) Serialize() ([]byte, error) {
	if p == nil || p.A == nil || p.Z == nil {
		return nil, fmt.Errorf("incomplete proof")
	}
	out := make([]byte, 0, EncryptionProofLen)
	out = append(out, p.A.Marshal()...)
	return append(out, crypto.PadToSign(p.Z.Bytes())...), nil
}

// DeserializeEncryptionProof decodes a proof serialized by Serialize for
// the given curve.
func DeserializeEncryptionProof(curve ecc.Point, data []byte) (*EncryptionProof, error) {
	if len(data) != EncryptionProofLen {
		return nil, fmt.Errorf("proof must be %d bytes, got %d", EncryptionProofLen, len(data))
	}
	A := curve.New()
	if err := A.Unmarshal(data[:32]); err != nil {
		return nil, fmt.Errorf("malformed proof commitment: %w", err)
	}
	return &EncryptionProof{
		A: A,
		Z: new(big.Int).SetBytes(data[32:]),
	}, nil
}
