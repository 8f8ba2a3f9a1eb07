// Package ecc defines the elliptic curve point abstraction used by the
// homomorphic encryption layer. Implementations live in subpackages and
// register themselves in the curves package.
package ecc

import "math/big"

// Point represents a point on an elliptic curve. Mutating methods store
// their result in the receiver.
type Point interface {
	// New returns a new point of the same curve (identity element).
	New() Point
	// Order returns the order of the curve subgroup.
	Order() *big.Int
	// Add sets the receiver to a+b.
	Add(a, b Point)
	// SafeAdd is a thread-safe Add.
	SafeAdd(a, b Point)
	// ScalarMult sets the receiver to scalar*a.
	ScalarMult(a Point, scalar *big.Int)
	// ScalarBaseMult sets the receiver to scalar*G.
	ScalarBaseMult(scalar *big.Int)
	// Neg sets the receiver to -a.
	Neg(a Point)
	// SetZero sets the receiver to the identity element.
	SetZero()
	// Set copies a into the receiver.
	Set(a Point)
	// SetGenerator sets the receiver to the curve generator.
	SetGenerator()
	// SetPoint sets the receiver to the given affine coordinates.
	SetPoint(x, y *big.Int) Point
	// Equal reports whether the receiver and a are the same point.
	Equal(a Point) bool
	// Point returns the affine coordinates.
	Point() (*big.Int, *big.Int)
	// BigInts returns the affine coordinates as a slice.
	BigInts() []*big.Int
	// Marshal returns the compressed serialization of the point.
	Marshal() []byte
	// Unmarshal deserializes a compressed point.
	Unmarshal(buf []byte) error
	// MarshalJSON and UnmarshalJSON implement JSON serialization.
	MarshalJSON() ([]byte, error)
	UnmarshalJSON(buf []byte) error
	// MarshalCBOR and UnmarshalCBOR implement CBOR serialization.
	MarshalCBOR() ([]byte, error)
	UnmarshalCBOR(buf []byte) error
	// String returns a printable representation.
	String() string
	// Type returns the curve type identifier.
	Type() string
}
