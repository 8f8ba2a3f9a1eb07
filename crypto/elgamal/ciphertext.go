package elgamal

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/ecc/curves"
)

// Ciphertext is a single exponent-ElGamal ciphertext (C1, C2) together
// with the identifier of the curve it lives on.
type Ciphertext struct {
	CurveType string    `json:"curveType"`
	C1        ecc.Point `json:"c1"`
	C2        ecc.Point `json:"c2"`
}

// NewCiphertext creates a new zero Ciphertext for the given curve.
func NewCiphertext(curve ecc.Point) *Ciphertext {
	c1 := curve.New()
	c1.SetZero()
	c2 := curve.New()
	c2.SetZero()
	return &Ciphertext{CurveType: curve.Type(), C1: c1, C2: c2}
}

// Valid checks that both points are set and the curve type is supported.
func (z *Ciphertext) Valid() bool {
	return z != nil && z.C1 != nil && z.C2 != nil && curves.IsValid(z.CurveType)
}

// IsZero checks if the ciphertext is the encryption-of-zero identity.
func (z *Ciphertext) IsZero() bool {
	if !z.Valid() {
		return false
	}
	zero := z.C1.New()
	zero.SetZero()
	return z.C1.Equal(zero) && z.C2.Equal(zero)
}

// Encrypt encrypts a message under publicKey using the nonce k, or a fresh
// random nonce if k is nil. It returns the receiver for chaining.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey ecc.Point, k *big.Int) (*Ciphertext, error) {
	var err error
	if k == nil {
		k, err = RandK(publicKey)
		if err != nil {
			return nil, fmt.Errorf("elgamal encryption failed: %w", err)
		}
	}
	z.CurveType = publicKey.Type()
	z.C1, z.C2 = EncryptWithK(publicKey, message, k)
	return z, nil
}

// Add sets z to the homomorphic sum of x and y and returns z. Both inputs
// must live on the same curve.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.CurveType = x.CurveType
	z.C1 = x.C1.New()
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2 = x.C2.New()
	z.C2.SafeAdd(x.C2, y.C2)
	return z
}

// Reencrypt re-randomizes the ciphertext under the same public key by
// adding a fresh encryption of zero. It returns the new ciphertext and the
// nonce used.
func (z *Ciphertext) Reencrypt(publicKey ecc.Point) (*Ciphertext, *big.Int, error) {
	k, err := RandK(publicKey)
	if err != nil {
		return nil, nil, err
	}
	zero := NewCiphertext(publicKey)
	if _, err := zero.Encrypt(big.NewInt(0), publicKey, k); err != nil {
		return nil, nil, err
	}
	return new(Ciphertext).Add(z, zero), k, nil
}

// Equal reports whether both ciphertexts hold the same points.
func (z *Ciphertext) Equal(other *Ciphertext) bool {
	if !z.Valid() || !other.Valid() || z.CurveType != other.CurveType {
		return false
	}
	return z.C1.Equal(other.C1) && z.C2.Equal(other.C2)
}

// Serialize returns the canonical CBOR serialization of the ciphertext.
func (z *Ciphertext) Serialize() ([]byte, error) {
	return z.MarshalCBOR()
}

// DeserializeCiphertext decodes a ciphertext from its canonical CBOR form.
func DeserializeCiphertext(data []byte) (*Ciphertext, error) {
	z := &Ciphertext{}
	if err := z.UnmarshalCBOR(data); err != nil {
		return nil, err
	}
	return z, nil
}

// ciphertextWire is the serialization envelope: the points are encoded with
// their own CBOR/JSON marshalers and the curve type travels alongside so
// that decoding can instantiate the right point implementation.
type ciphertextWire struct {
	CurveType string          `cbor:"curveType" json:"curveType"`
	C1        cbor.RawMessage `cbor:"c1" json:"-"`
	C2        cbor.RawMessage `cbor:"c2" json:"-"`
}

type ciphertextWireJSON struct {
	CurveType string          `json:"curveType"`
	C1        json.RawMessage `json:"c1"`
	C2        json.RawMessage `json:"c2"`
}

// MarshalCBOR implements cbor.Marshaler.
func (z *Ciphertext) MarshalCBOR() ([]byte, error) {
	if !z.Valid() {
		return nil, ErrInvalidCiphertext
	}
	c1, err := z.C1.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	c2, err := z.C2.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&ciphertextWire{CurveType: z.CurveType, C1: c1, C2: c2})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (z *Ciphertext) UnmarshalCBOR(data []byte) error {
	w := &ciphertextWire{}
	if err := cbor.Unmarshal(data, w); err != nil {
		return err
	}
	if !curves.IsValid(w.CurveType) {
		return ErrInvalidCurveType
	}
	z.CurveType = w.CurveType
	z.C1 = curves.New(w.CurveType)
	if err := z.C1.UnmarshalCBOR(w.C1); err != nil {
		return err
	}
	z.C2 = curves.New(w.CurveType)
	return z.C2.UnmarshalCBOR(w.C2)
}

// MarshalJSON implements json.Marshaler.
func (z *Ciphertext) MarshalJSON() ([]byte, error) {
	if !z.Valid() {
		return nil, ErrInvalidCiphertext
	}
	c1, err := z.C1.MarshalJSON()
	if err != nil {
		return nil, err
	}
	c2, err := z.C2.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(&ciphertextWireJSON{CurveType: z.CurveType, C1: c1, C2: c2})
}

// UnmarshalJSON implements json.Unmarshaler.
func (z *Ciphertext) UnmarshalJSON(data []byte) error {
	w := &ciphertextWireJSON{}
	if err := json.Unmarshal(data, w); err != nil {
		return err
	}
	if !curves.IsValid(w.CurveType) {
		return ErrInvalidCurveType
	}
	z.CurveType = w.CurveType
	z.C1 = curves.New(w.CurveType)
	if err := z.C1.UnmarshalJSON(w.C1); err != nil {
		return err
	}
	z.C2 = curves.New(w.CurveType)
	return z.C2.UnmarshalJSON(w.C2)
}

// String returns a printable representation of the ciphertext.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}
