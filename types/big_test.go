package types

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestBigIntJSON(t *testing.T) {
	c := qt.New(t)

	bi := new(BigInt).SetBigInt(big.NewInt(1234567890))
	b, err := json.Marshal(map[string]*BigInt{"bi": bi})
	c.Assert(err, qt.IsNil)

	var out map[string]*BigInt
	c.Assert(json.Unmarshal(b, &out), qt.IsNil)
	c.Assert(out["bi"], qt.DeepEquals, bi)

	// bare numeric representation is accepted too
	var numeric BigInt
	c.Assert(json.Unmarshal([]byte(`123456789`), &numeric), qt.IsNil)
	c.Assert(numeric.String(), qt.Equals, "123456789")
}

func TestBigIntCBOR(t *testing.T) {
	c := qt.New(t)

	bi := new(BigInt).SetBigInt(big.NewInt(1234567890))
	b, err := cbor.Marshal(map[string]*BigInt{"bi": bi})
	c.Assert(err, qt.IsNil)

	var out map[string]*BigInt
	c.Assert(cbor.Unmarshal(b, &out), qt.IsNil)
	c.Assert(out["bi"], qt.DeepEquals, bi)
}

func TestBigIntConverter(t *testing.T) {
	c := qt.New(t)

	in := []*big.Int{big.NewInt(1), big.NewInt(256)}
	out := SliceOf(in, BigIntConverter)
	c.Assert(out, qt.HasLen, 2)
	c.Assert(out[1].MathBigInt().Int64(), qt.Equals, int64(256))
}
