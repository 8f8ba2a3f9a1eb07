package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHexBytesString(t *testing.T) {
	c := qt.New(t)

	testCases := []struct {
		name string
		in   HexBytes
		want string
	}{
		{name: "nil slice", in: nil, want: "0x"},
		{name: "empty", in: HexBytes{}, want: "0x"},
		{name: "non-empty", in: HexBytes{0x00, 0xAB, 0xCD}, want: "0x00abcd"},
	}
	for _, tc := range testCases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert((&tc.in).String(), qt.Equals, tc.want)
		})
	}
}

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)

	c.Run("marshal", func(c *qt.C) {
		b, err := json.Marshal(HexBytes{0xDE, 0xAD, 0xBE, 0xEF})
		c.Assert(err, qt.IsNil)
		c.Assert(string(b), qt.Equals, `"0xdeadbeef"`)

		b, err = json.Marshal(HexBytes{})
		c.Assert(err, qt.IsNil)
		c.Assert(string(b), qt.Equals, `"0x"`)
	})

	c.Run("unmarshal", func(c *qt.C) {
		for _, in := range []string{`"0xdeadbeef"`, `"0Xdeadbeef"`, `"deadbeef"`} {
			var hb HexBytes
			c.Assert(json.Unmarshal([]byte(in), &hb), qt.IsNil)
			c.Assert(hb, qt.DeepEquals, HexBytes{0xDE, 0xAD, 0xBE, 0xEF})
		}
	})

	c.Run("unmarshal reslices to decoded length", func(c *qt.C) {
		hb := HexBytes{0xAA, 0xBB, 0xCC, 0xDD}
		c.Assert(json.Unmarshal([]byte(`"0x01"`), &hb), qt.IsNil)
		c.Assert(hb, qt.DeepEquals, HexBytes{0x01})
	})

	c.Run("unmarshal invalid", func(c *qt.C) {
		var hb HexBytes
		c.Assert(json.Unmarshal([]byte(`123`), &hb), qt.ErrorMatches, `invalid JSON string: "123"`)
		c.Assert(json.Unmarshal([]byte(`"0x0"`), &hb), qt.ErrorMatches, `encoding/hex: odd length hex string`)
		c.Assert(json.Unmarshal([]byte(`"0xzz"`), &hb), qt.ErrorMatches, `encoding/hex: invalid byte: .*`)
	})
}

func TestHexStringToHexBytes(t *testing.T) {
	c := qt.New(t)

	for _, in := range []string{"0xdeadbeef", "0Xdeadbeef", "deadbeef"} {
		got, err := HexStringToHexBytes(in)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, HexBytes{0xDE, 0xAD, 0xBE, 0xEF})
	}

	_, err := HexStringToHexBytes("0xzz")
	c.Assert(err, qt.ErrorMatches, `invalid hex string "zz": .*`)
}
