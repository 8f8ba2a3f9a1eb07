// Package crypto provides shared cryptographic helpers for the trustledger
// node: finite-field reduction and fixed-width serialization of values to
// be signed.
package crypto

import "math/big"

// SignedPayloadLen is the standard size in bytes of a serialized value
// included in a signed payload.
const SignedPayloadLen = 32 // bytes

// PadToSign pads the input byte slice to SignedPayloadLen bytes. If the
// input is shorter, it prepends zeros; if longer, it keeps the last
// SignedPayloadLen bytes.
func PadToSign(input []byte) []byte {
	if len(input) < SignedPayloadLen {
		out := make([]byte, SignedPayloadLen)
		copy(out[SignedPayloadLen-len(input):], input)
		return out
	}
	if len(input) > SignedPayloadLen {
		return input[len(input)-SignedPayloadLen:]
	}
	return input
}

// BigToFF returns the finite-field representation of the provided big.Int,
// reducing it modulo the given field order when necessary.
func BigToFF(field, iv *big.Int) *big.Int {
	z := big.NewInt(0)
	if c := iv.Cmp(field); c == 0 {
		return z
	} else if c != 1 && iv.Cmp(z) != -1 {
		return iv
	}
	return z.Mod(iv, field)
}
