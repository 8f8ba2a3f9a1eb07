package storage

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	bjj "github.com/vocdoni/trustledger/crypto/ecc/bjj_iden3"
	"github.com/vocdoni/trustledger/crypto/ecc/curves"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/db/metadb"
	"github.com/vocdoni/trustledger/types"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	// metadb.NewTest closes the database on test cleanup
	return New(metadb.NewTest(t))
}

func testUser(b byte) types.UserKey {
	var u types.UserKey
	u[types.UserKeyLength-1] = b
	return u
}

func testCiphertext(t *testing.T, value int64) *elgamal.Ciphertext {
	t.Helper()
	pub, _, err := elgamal.GenerateKey(curves.New(bjj.CurveType))
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	ct, err := elgamal.NewCiphertext(pub).Encrypt(big.NewInt(value), pub, nil)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return ct
}

func TestEncryptionKeysRoundtrip(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)

	_, _, err := st.EncryptionKeys()
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	pub, priv, err := st.FetchOrGenerateEncryptionKeys()
	c.Assert(err, qt.IsNil)

	// a second fetch returns the same pair
	pub2, priv2, err := st.FetchOrGenerateEncryptionKeys()
	c.Assert(err, qt.IsNil)
	c.Assert(pub2.Equal(pub), qt.IsTrue)
	c.Assert(priv2.Cmp(priv), qt.Equals, 0)
}

func TestAppendEvent(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)
	user := testUser(1)

	_, err := st.TrustRecord(user)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	event := testCiphertext(t, 7)
	total := testCiphertext(t, 7)
	average := testCiphertext(t, 7)

	res, err := st.AppendEvent(user, event, total, average)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Index, qt.Equals, uint32(0))
	c.Assert(res.Event, qt.HasLen, types.HandleLength)

	record, err := st.TrustRecord(user)
	c.Assert(err, qt.IsNil)
	c.Assert(record.EventCount, qt.Equals, uint32(1))
	c.Assert(record.History, qt.HasLen, 1)
	c.Assert(record.History[0], qt.DeepEquals, res.Event)
	c.Assert(record.Total, qt.DeepEquals, res.Total)
	c.Assert(record.Average, qt.DeepEquals, res.Average)
	c.Assert(record.LastActivity > 0, qt.IsTrue)

	// the arena resolves each new handle
	got, err := st.Ciphertext(res.Event)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(event), qt.IsTrue)

	// grants landed with the ciphertexts
	for _, handle := range []types.Handle{res.Event, res.Total, res.Average} {
		for _, p := range []types.Principal{types.SystemPrincipal, types.PrincipalFromUser(user)} {
			ok, err := st.MayDecrypt(handle, p)
			c.Assert(err, qt.IsNil)
			c.Assert(ok, qt.IsTrue)
		}
		ok, err := st.MayDecrypt(handle, types.PrincipalFromUser(testUser(9)))
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	}

	// the snapshot was refreshed in the same commit
	stats, err := st.CachedStatistics(user)
	c.Assert(err, qt.IsNil)
	c.Assert(stats, qt.DeepEquals, record.Statistics())
}

func TestAppendEventCapacity(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)
	user := testUser(2)

	// park the record one below the hard cap directly
	almostFull := &TrustRecord{EventCount: types.MaxTrustEvents - 1}
	err := st.setArtifact(trustRecordPrefix, user.Bytes(), almostFull)
	c.Assert(err, qt.IsNil)

	// the last slot is still writable
	ct := testCiphertext(t, 1)
	result, err := st.AppendEvent(user, ct, ct, ct)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Index, qt.Equals, uint32(types.MaxTrustEvents-1))

	// one more is rejected
	_, err = st.AppendEvent(user, ct, ct, ct)
	c.Assert(err, qt.ErrorIs, ErrCapacityReached)
}

func TestAppendEventIsolation(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)
	a, b := testUser(1), testUser(2)

	ct := testCiphertext(t, 5)
	_, err := st.AppendEvent(a, ct, ct, ct)
	c.Assert(err, qt.IsNil)

	_, err = st.TrustRecord(b)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	stats, err := st.CachedStatistics(b)
	c.Assert(err, qt.IsNil)
	c.Assert(stats.HasData, qt.IsFalse)
}

func TestGrants(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)

	handle := make(types.Handle, types.HandleLength)
	handle[0] = 0x01
	c.Assert(st.Grant(handle, types.SystemPrincipal), qt.IsNil)
	c.Assert(st.Grant(handle, types.PrincipalFromUser(testUser(3))), qt.IsNil)

	principals, err := st.Grants(handle)
	c.Assert(err, qt.IsNil)
	c.Assert(principals, qt.HasLen, 2)
}

func TestHandleDerivation(t *testing.T) {
	c := qt.New(t)
	user := testUser(1)
	ct := []byte{0xde, 0xad}

	h1 := ComputeHandle(user, 0, roleEvent, ct)
	h2 := ComputeHandle(user, 0, roleTotal, ct)
	h3 := ComputeHandle(user, 1, roleEvent, ct)
	h4 := ComputeHandle(testUser(2), 0, roleEvent, ct)

	c.Assert(h1, qt.HasLen, types.HandleLength)
	c.Assert(h1, qt.Not(qt.DeepEquals), h2)
	c.Assert(h1, qt.Not(qt.DeepEquals), h3)
	c.Assert(h1, qt.Not(qt.DeepEquals), h4)
	c.Assert(ComputeHandle(user, 0, roleEvent, ct), qt.DeepEquals, h1)
}

func TestStatisticsRefresh(t *testing.T) {
	c := qt.New(t)
	st := testStorage(t)
	user := testUser(4)

	stats := types.Statistics{EventCount: 3, LastActivity: 1700000000, HasData: true}
	c.Assert(st.RefreshStatistics(user, stats), qt.IsNil)

	got, err := st.CachedStatistics(user)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, stats)
}
