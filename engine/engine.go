// Package engine implements the homomorphic core of the trust ledger: the
// proof verifier for externally supplied ciphertexts, the accumulator fold
// producing running total and average, and the range gate used by the batch
// validity check.
//
// The engine is the only component holding the system private key. The
// divide-by-scalar and range operations are evaluated as internal gates:
// the engine opens the operand with the system key, computes in plaintext,
// and re-encrypts (or returns a bare boolean). Callers never observe an
// intermediate plaintext.
package engine

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/types"
)

// ErrInvalidProof is returned when proof material fails deserialization or
// does not verify against the ciphertext, system key and submitter.
var ErrInvalidProof = errors.New("invalid encryption proof")

// maxPlaintext is the inclusive upper bound of the discrete-log search when
// the engine opens a ciphertext. Fold results are reduced into
// [0, maxPlaintext]; accumulated totals wrap silently at the width
// boundary.
const maxPlaintext uint64 = 1<<types.ScoreBitWidth - 1

// Engine wraps the system ElGamal key pair.
type Engine struct {
	publicKey  ecc.Point
	privateKey *big.Int
}

// New creates an Engine from the system key pair.
func New(publicKey ecc.Point, privateKey *big.Int) (*Engine, error) {
	if publicKey == nil || privateKey == nil || privateKey.Sign() <= 0 {
		return nil, fmt.Errorf("engine: missing or invalid system key pair")
	}
	return &Engine{publicKey: publicKey, privateKey: privateKey}, nil
}

// PublicKey returns the system encryption public key.
func (e *Engine) PublicKey() ecc.Point {
	return e.publicKey
}

// VerifyInput deserializes an externally supplied ciphertext and its proof
// material and checks the proof binding against the system key and the
// submitting principal. It returns the deserialized ciphertext on success
// and ErrInvalidProof on any deserialization or verification failure. The
// plaintext value is never inspected here.
func (e *Engine) VerifyInput(ciphertext, proof []byte, submitter types.UserKey) (*elgamal.Ciphertext, error) {
	ct, err := elgamal.DeserializeCiphertext(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: incomplete ciphertext", ErrInvalidProof)
	}
	p, err := elgamal.DeserializeEncryptionProof(e.publicKey, proof)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if !elgamal.VerifyEncryptionProof(p, e.publicKey, ct.C1, ct.C2, submitter.Bytes()) {
		return nil, ErrInvalidProof
	}
	return ct, nil
}

// Fold combines a validated ciphertext into the running aggregates. The new
// total is the homomorphic sum of the previous total and the new value,
// replaced by a re-encryption of the reduced sum when it crosses the
// 32-bit width boundary (silent wraparound). The new average is the total
// divided by the plaintext event count, evaluated as an internal gate.
// A nil total means the user had no prior events.
func (e *Engine) Fold(total, ct *elgamal.Ciphertext, count uint32) (newTotal, newAverage *elgamal.Ciphertext, err error) {
	if ct == nil || !ct.Valid() {
		return nil, nil, fmt.Errorf("fold: invalid ciphertext")
	}
	if count == 0 {
		return nil, nil, fmt.Errorf("fold: event count must be positive")
	}

	if total == nil {
		total = elgamal.NewCiphertext(e.publicKey) // encryption-of-zero identity
	}
	newTotal = elgamal.NewCiphertext(e.publicKey).Add(total, ct)

	// open the sum and reduce it into the fixed width
	sum, err := e.open(newTotal)
	if err != nil {
		// the unreduced sum exceeds the search bound, so it wrapped
		wrapped, werr := e.openWide(newTotal)
		if werr != nil {
			return nil, nil, fmt.Errorf("fold: cannot open total: %w", werr)
		}
		sum = wrapped % (maxPlaintext + 1)
		if newTotal, err = e.seal(sum); err != nil {
			return nil, nil, fmt.Errorf("fold: reseal total: %w", err)
		}
	}

	avg := sum / uint64(count)
	if newAverage, err = e.seal(avg); err != nil {
		return nil, nil, fmt.Errorf("fold: seal average: %w", err)
	}
	return newTotal, newAverage, nil
}

// DivScalar divides a ciphertext by a plaintext scalar with integer
// division semantics, as an internal gate. The divisor is always known in
// clear (it is the event count).
func (e *Engine) DivScalar(ct *elgamal.Ciphertext, divisor uint64) (*elgamal.Ciphertext, error) {
	if divisor == 0 {
		return nil, fmt.Errorf("divscalar: division by zero")
	}
	v, err := e.open(ct)
	if err != nil {
		return nil, fmt.Errorf("divscalar: %w", err)
	}
	return e.seal(v / divisor)
}

// InRange reports whether the encrypted value lies in [min,max]. Only the
// boolean leaves the gate. A value outside the fixed integer width counts
// as out of range rather than an error.
func (e *Engine) InRange(ct *elgamal.Ciphertext, min, max uint64) (bool, error) {
	if ct == nil || !ct.Valid() {
		return false, fmt.Errorf("inrange: invalid ciphertext")
	}
	v, err := e.open(ct)
	if err != nil {
		return false, nil
	}
	return v >= min && v <= max, nil
}

// Open decrypts a ciphertext with the system key and returns the plaintext
// value. Exposed for the re-encryption service only; every other caller
// goes through the gates above.
func (e *Engine) Open(ct *elgamal.Ciphertext) (uint64, error) {
	return e.open(ct)
}

func (e *Engine) open(ct *elgamal.Ciphertext) (uint64, error) {
	if ct == nil || !ct.Valid() {
		return 0, fmt.Errorf("invalid ciphertext")
	}
	_, m, err := elgamal.Decrypt(e.publicKey, e.privateKey, ct.C1, ct.C2, maxPlaintext)
	if err != nil {
		return 0, err
	}
	return m.Uint64(), nil
}

// openWide searches beyond the fixed width. Totals are reduced on every
// fold, so an unreduced sum never exceeds two full-width values.
func (e *Engine) openWide(ct *elgamal.Ciphertext) (uint64, error) {
	wideMax := 2 * maxPlaintext
	_, m, err := elgamal.Decrypt(e.publicKey, e.privateKey, ct.C1, ct.C2, wideMax)
	if err != nil {
		return 0, err
	}
	return m.Uint64(), nil
}

// seal encrypts a plaintext value under the system public key with fresh
// randomness.
func (e *Engine) seal(v uint64) (*elgamal.Ciphertext, error) {
	k, err := elgamal.RandK(e.publicKey)
	if err != nil {
		return nil, err
	}
	return elgamal.NewCiphertext(e.publicKey).Encrypt(new(big.Int).SetUint64(v), e.publicKey, k)
}
