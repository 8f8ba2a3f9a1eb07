package engine

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/trustledger/crypto/ecc/curves"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/types"
)

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	curve := curves.New("bjj_iden3")
	pub, priv, err := elgamal.GenerateKey(curve)
	if err != nil {
		t.Fatalf("generate system key: %v", err)
	}
	e, err := New(pub, priv)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func testUser(b byte) types.UserKey {
	var u types.UserKey
	u[types.UserKeyLength-1] = b
	return u
}

func TestVerifyInput(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)
	user := testUser(1)

	ctBytes, proofBytes, err := EncryptInput(e.PublicKey(), 7, user)
	c.Assert(err, qt.IsNil)

	ct, err := e.VerifyInput(ctBytes, proofBytes, user)
	c.Assert(err, qt.IsNil)
	c.Assert(ct.Valid(), qt.IsTrue)

	// the proof is bound to the submitter
	_, err = e.VerifyInput(ctBytes, proofBytes, testUser(2))
	c.Assert(err, qt.ErrorIs, ErrInvalidProof)

	// truncated proof material
	_, err = e.VerifyInput(ctBytes, proofBytes[:10], user)
	c.Assert(err, qt.ErrorIs, ErrInvalidProof)

	// garbage ciphertext
	_, err = e.VerifyInput([]byte{0xff, 0xfe}, proofBytes, user)
	c.Assert(err, qt.ErrorIs, ErrInvalidProof)
}

func TestFold(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)
	user := testUser(1)

	scores := []uint64{7, 5, 9}
	var total *elgamal.Ciphertext
	var average *elgamal.Ciphertext
	var sum uint64
	for i, s := range scores {
		ctBytes, proofBytes, err := EncryptInput(e.PublicKey(), s, user)
		c.Assert(err, qt.IsNil)
		ct, err := e.VerifyInput(ctBytes, proofBytes, user)
		c.Assert(err, qt.IsNil)

		total, average, err = e.Fold(total, ct, uint32(i+1))
		c.Assert(err, qt.IsNil)
		sum += s

		gotTotal, err := e.Open(total)
		c.Assert(err, qt.IsNil)
		c.Assert(gotTotal, qt.Equals, sum)

		gotAvg, err := e.Open(average)
		c.Assert(err, qt.IsNil)
		c.Assert(gotAvg, qt.Equals, sum/uint64(i+1))
	}
}

func TestFoldWraparound(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)

	// a total already at the top of the fixed width
	total, err := e.seal(maxPlaintext)
	c.Assert(err, qt.IsNil)

	ct, err := e.seal(5)
	c.Assert(err, qt.IsNil)

	// (2^32-1) + 5 wraps to 4
	newTotal, newAverage, err := e.Fold(total, ct, 2)
	c.Assert(err, qt.IsNil)

	gotTotal, err := e.Open(newTotal)
	c.Assert(err, qt.IsNil)
	c.Assert(gotTotal, qt.Equals, uint64(4))

	gotAvg, err := e.Open(newAverage)
	c.Assert(err, qt.IsNil)
	c.Assert(gotAvg, qt.Equals, uint64(2))
}

func TestDivScalar(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)

	ct, err := e.seal(17)
	c.Assert(err, qt.IsNil)

	half, err := e.DivScalar(ct, 2)
	c.Assert(err, qt.IsNil)
	v, err := e.Open(half)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(8)) // integer division

	_, err = e.DivScalar(ct, 0)
	c.Assert(err, qt.IsNotNil)
}

func TestInRange(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)

	for _, tc := range []struct {
		value uint64
		want  bool
	}{
		{1, true},
		{10, true},
		{5, true},
		{0, false},
		{11, false},
	} {
		ct, err := e.seal(tc.value)
		c.Assert(err, qt.IsNil)
		ok, err := e.InRange(ct, types.MinScore, types.MaxScore)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.Equals, tc.want, qt.Commentf("value %d", tc.value))
	}
}

// fakeLedger is a map-backed LedgerDirectory for service tests.
type fakeLedger struct {
	arena  map[string]*elgamal.Ciphertext
	grants map[string]map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		arena:  map[string]*elgamal.Ciphertext{},
		grants: map[string]map[string]bool{},
	}
}

func (f *fakeLedger) put(handle types.Handle, ct *elgamal.Ciphertext, principals ...types.Principal) {
	f.arena[string(handle)] = ct
	g := map[string]bool{}
	for _, p := range principals {
		g[string(p.Bytes())] = true
	}
	f.grants[string(handle)] = g
}

func (f *fakeLedger) Ciphertext(handle types.Handle) (*elgamal.Ciphertext, error) {
	ct, ok := f.arena[string(handle)]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return ct, nil
}

func (f *fakeLedger) MayDecrypt(handle types.Handle, principal types.Principal) (bool, error) {
	return f.grants[string(handle)][string(principal.Bytes())], nil
}

func TestReencryptionService(t *testing.T) {
	c := qt.New(t)
	e := newTestEngine(t)

	holder, err := ethereum.NewSigner()
	c.Assert(err, qt.IsNil)
	holderKey := types.UserKey(holder.Address())

	// seal a value and register it with a grant for the holder
	ct, err := e.seal(42)
	c.Assert(err, qt.IsNil)
	handle := make(types.Handle, types.HandleLength)
	handle[0] = 0xaa
	ledger := newFakeLedger()
	ledger.put(handle, ct, types.SystemPrincipal, types.PrincipalFromUser(holderKey))

	svc := NewReencryptionService(e, ledger)

	// ephemeral session key pair
	sessionPub, sessionPriv, err := elgamal.GenerateKey(e.PublicKey().New())
	c.Assert(err, qt.IsNil)

	sig, err := holder.Sign(ReencryptRequestMessage(handle, sessionPub))
	c.Assert(err, qt.IsNil)

	sealed, err := svc.Reencrypt(handle, sessionPub, sig)
	c.Assert(err, qt.IsNil)

	// only the session key opens the result
	_, v, err := elgamal.Decrypt(sessionPub, sessionPriv, sealed.C1, sealed.C2, 100)
	c.Assert(err, qt.IsNil)
	c.Assert(v.Uint64(), qt.Equals, uint64(42))

	// a principal without a grant is denied
	stranger, err := ethereum.NewSigner()
	c.Assert(err, qt.IsNil)
	strangerSig, err := stranger.Sign(ReencryptRequestMessage(handle, sessionPub))
	c.Assert(err, qt.IsNil)
	_, err = svc.Reencrypt(handle, sessionPub, strangerSig)
	c.Assert(err, qt.ErrorIs, ErrCapabilityDenied)

	// an unregistered handle has no grants either
	unknown := make(types.Handle, types.HandleLength)
	unknown[0] = 0xbb
	sig2, err := holder.Sign(ReencryptRequestMessage(unknown, sessionPub))
	c.Assert(err, qt.IsNil)
	_, err = svc.Reencrypt(unknown, sessionPub, sig2)
	c.Assert(err, qt.IsNotNil)
}
