// Package bjj wraps the iden3 BabyJubJub implementation behind the
// ecc.Point interface.
package bjj

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/fxamacker/cbor/v2"
	babyjubjub "github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/types"
)

// CurveType identifies this implementation in serialized ciphertexts.
const CurveType = "bjj_iden3"

// BJJ is the affine representation of a BabyJubJub group element.
type BJJ struct {
	inner *babyjubjub.Point
	lock  sync.Mutex
}

// New returns the identity element of the BabyJubJub subgroup.
func New() ecc.Point {
	return &BJJ{inner: babyjubjub.NewPoint()}
}

// New returns a fresh identity element of the same curve.
func (g *BJJ) New() ecc.Point {
	return &BJJ{inner: babyjubjub.NewPoint()}
}

// Order returns the order of the BabyJubJub subgroup.
func (g *BJJ) Order() *big.Int {
	return babyjubjub.SubOrder
}

// Add sets the receiver to a+b.
func (g *BJJ) Add(a, b ecc.Point) {
	g.inner = g.inner.Projective().Add(a.(*BJJ).inner.Projective(), b.(*BJJ).inner.Projective()).Affine()
}

// SafeAdd is Add under the receiver's lock.
func (g *BJJ) SafeAdd(a, b ecc.Point) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.Add(a, b)
}

// ScalarMult sets the receiver to scalar*a.
func (g *BJJ) ScalarMult(a ecc.Point, scalar *big.Int) {
	g.inner = g.inner.Mul(scalar, a.(*BJJ).inner)
}

// ScalarBaseMult sets the receiver to scalar*G, where G is the subgroup
// generator.
func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	g.inner = g.inner.Mul(scalar, babyjubjub.B8)
}

// Neg sets the receiver to -a.
func (g *BJJ) Neg(a ecc.Point) {
	g.Set(a)
	proj := g.inner.Projective()
	proj.X = proj.X.Neg(proj.X)
	g.inner.X = g.inner.X.Set(proj.Affine().X)
}

// SetZero sets the receiver to the identity element.
func (g *BJJ) SetZero() {
	p := g.inner.Projective()
	p.X.SetZero()
	p.Y.SetOne()
	p.Z.SetOne()
	g.inner = p.Affine()
}

// Set copies a into the receiver.
func (g *BJJ) Set(a ecc.Point) {
	g.inner.X = g.inner.X.Set(a.(*BJJ).inner.X)
	g.inner.Y = g.inner.Y.Set(a.(*BJJ).inner.Y)
}

// SetGenerator sets the receiver to the subgroup generator.
func (g *BJJ) SetGenerator() {
	gen := babyjubjub.B8
	g.inner.X = g.inner.X.Set(gen.X)
	g.inner.Y = g.inner.Y.Set(gen.Y)
}

// SetPoint sets the receiver to the given affine coordinates and returns it.
func (g *BJJ) SetPoint(x, y *big.Int) ecc.Point {
	g = &BJJ{inner: babyjubjub.NewPoint()}
	g.inner.X = g.inner.X.Set(x)
	g.inner.Y = g.inner.Y.Set(y)
	return g
}

// Equal reports whether the receiver and a are the same point.
func (g *BJJ) Equal(a ecc.Point) bool {
	return g.inner.X.Cmp(a.(*BJJ).inner.X) == 0 && g.inner.Y.Cmp(a.(*BJJ).inner.Y) == 0
}

// Point returns the affine coordinates of the point.
func (g *BJJ) Point() (*big.Int, *big.Int) {
	return g.inner.X, g.inner.Y
}

// BigInts returns the affine coordinates as a slice.
func (g *BJJ) BigInts() []*big.Int {
	x, y := g.Point()
	return []*big.Int{x, y}
}

// Marshal returns the 32-byte compressed serialization of the point.
func (g *BJJ) Marshal() []byte {
	b := g.inner.Compress()
	return b[:]
}

// Unmarshal decompresses a point from its 32-byte compressed form.
func (g *BJJ) Unmarshal(buf []byte) error {
	b32 := [32]byte{}
	copy(b32[:], buf)
	// Decompress only sets Y on the receiver; the recovered X lives on the
	// returned point.
	p, err := g.inner.Decompress(b32)
	if err != nil {
		return err
	}
	g.inner = p
	return nil
}

// MarshalJSON encodes the point as a two-element coordinate array.
func (g *BJJ) MarshalJSON() ([]byte, error) {
	return json.Marshal([]*types.BigInt{
		types.BigIntConverter(g.inner.X),
		types.BigIntConverter(g.inner.Y),
	})
}

// UnmarshalJSON decodes the point from a two-element coordinate array.
func (g *BJJ) UnmarshalJSON(buf []byte) error {
	if g.inner == nil {
		g.inner = babyjubjub.NewPoint()
	}
	var coords []*types.BigInt
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X = coords[0].MathBigInt()
	g.inner.Y = coords[1].MathBigInt()
	return nil
}

// MarshalCBOR encodes the point as a two-element coordinate array.
func (g *BJJ) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal([]*big.Int{g.inner.X, g.inner.Y})
}

// UnmarshalCBOR decodes the point from a two-element coordinate array.
func (g *BJJ) UnmarshalCBOR(buf []byte) error {
	if g.inner == nil {
		g.inner = babyjubjub.NewPoint()
	}
	var coords []*big.Int
	if err := cbor.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X = coords[0]
	g.inner.Y = coords[1]
	return nil
}

// String returns the affine coordinates as "x,y".
func (g *BJJ) String() string {
	return fmt.Sprintf("%s,%s", g.inner.X.String(), g.inner.Y.String())
}

// Type returns the curve type identifier.
func (g *BJJ) Type() string {
	return CurveType
}
