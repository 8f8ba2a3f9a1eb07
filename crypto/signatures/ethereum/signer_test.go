package ethereum

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSignAndVerify(t *testing.T) {
	c := qt.New(t)

	signer, err := NewSigner()
	c.Assert(err, qt.IsNil)

	message := []byte("authorize reveal of trust history")
	sig, err := signer.Sign(message)
	c.Assert(err, qt.IsNil)
	c.Assert(sig.Valid(), qt.IsTrue)

	ok, _ := sig.Verify(message, signer.Address())
	c.Assert(ok, qt.IsTrue)

	// a different address must not verify
	other, err := NewSigner()
	c.Assert(err, qt.IsNil)
	ok, _ = sig.Verify(message, other.Address())
	c.Assert(ok, qt.IsFalse)

	// a different message must not verify
	ok, _ = sig.Verify([]byte("some other message"), signer.Address())
	c.Assert(ok, qt.IsFalse)
}

func TestSignatureSerialization(t *testing.T) {
	c := qt.New(t)

	signer, err := NewSigner()
	c.Assert(err, qt.IsNil)

	message := []byte("hello")
	sig, err := signer.Sign(message)
	c.Assert(err, qt.IsNil)

	decoded, err := BytesToSignature(sig.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.R.Cmp(sig.R), qt.Equals, 0)
	c.Assert(decoded.S.Cmp(sig.S), qt.Equals, 0)

	addr, err := AddrFromSignature(message, decoded)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, signer.Address())
}

func TestAddrFromSignatureInvalid(t *testing.T) {
	c := qt.New(t)

	_, err := AddrFromSignature([]byte("m"), nil)
	c.Assert(err, qt.IsNotNil)

	_, err = BytesToSignature([]byte{0x01, 0x02})
	c.Assert(err, qt.IsNotNil)
}
