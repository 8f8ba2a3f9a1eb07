package reveal

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/db/metadb"
	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/trust"
	"github.com/vocdoni/trustledger/types"
)

// localRemote serves re-encryption requests in-process.
type localRemote struct {
	svc *engine.ReencryptionService
}

func (r localRemote) Reencrypt(_ context.Context, handle types.Handle, sessionKey ecc.Point,
	signature *ethereum.ECDSASignature,
) (*elgamal.Ciphertext, error) {
	return r.svc.Reencrypt(handle, sessionKey, signature)
}

// brokenRemote simulates a network failure.
type brokenRemote struct{}

func (brokenRemote) Reencrypt(context.Context, types.Handle, ecc.Point,
	*ethereum.ECDSASignature,
) (*elgamal.Ciphertext, error) {
	return nil, errors.New("connection refused")
}

func autoSigner(signer *ethereum.Signer) SignerFunc {
	return func(_ context.Context, message []byte) (*ethereum.ECDSASignature, error) {
		return signer.Sign(message)
	}
}

// testSetup records two scores for the holder and returns the append
// results plus the remote service.
func testSetup(t *testing.T) (*trust.Service, *ethereum.Signer, []*storage.AppendResult, Reencryptor) {
	t.Helper()
	stg := storage.New(metadb.NewTest(t))
	pub, priv, err := stg.FetchOrGenerateEncryptionKeys()
	if err != nil {
		t.Fatalf("encryption keys: %v", err)
	}
	eng, err := engine.New(pub, priv)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	svc := trust.New(stg, eng, nil)

	holder, err := ethereum.NewSigner()
	if err != nil {
		t.Fatalf("holder signer: %v", err)
	}
	user := types.UserKey(holder.Address())

	var results []*storage.AppendResult
	for _, score := range []uint64{7, 4} {
		ct, proof, err := engine.EncryptInput(pub, score, user)
		if err != nil {
			t.Fatalf("encrypt input: %v", err)
		}
		res, err := svc.RecordEvent(user, ct, proof)
		if err != nil {
			t.Fatalf("record event: %v", err)
		}
		results = append(results, res)
	}
	return svc, holder, results, localRemote{engine.NewReencryptionService(eng, stg)}
}

func TestRevealCompletes(t *testing.T) {
	c := qt.New(t)
	_, holder, results, remote := testSetup(t)

	session := NewSession(results[0].Event, autoSigner(holder), remote)
	c.Assert(session.State(), qt.Equals, StateIdle)

	value, err := session.Run(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(7))
	c.Assert(session.State(), qt.Equals, StateCompleted)

	got, ok := session.Value()
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, uint64(7))

	// the running total reveals through its own independent session
	total, err := NewSession(results[1].Total, autoSigner(holder), remote).Run(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, uint64(11))
}

func TestRevealDeniedWithoutGrant(t *testing.T) {
	c := qt.New(t)
	_, _, results, remote := testSetup(t)

	stranger, err := ethereum.NewSigner()
	c.Assert(err, qt.IsNil)

	session := NewSession(results[0].Event, autoSigner(stranger), remote)
	_, err = session.Run(context.Background())
	c.Assert(err, qt.ErrorIs, engine.ErrCapabilityDenied)
	c.Assert(session.State(), qt.Equals, StateIdle)
}

func TestRevealRemoteFailure(t *testing.T) {
	c := qt.New(t)
	_, holder, results, _ := testSetup(t)

	session := NewSession(results[0].Event, autoSigner(holder), brokenRemote{})
	_, err := session.Run(context.Background())
	c.Assert(err, qt.ErrorIs, ErrRemoteServiceUnavailable)
	c.Assert(session.State(), qt.Equals, StateIdle)

	// after the reset the holder may retry manually
	_, err = session.Run(context.Background())
	c.Assert(err, qt.ErrorIs, ErrRemoteServiceUnavailable)
}

func TestRevealCancelledWhileParked(t *testing.T) {
	c := qt.New(t)
	_, _, results, remote := testSetup(t)

	ctx, cancel := context.WithCancel(context.Background())
	parked := make(chan struct{})
	blockingSigner := func(ctx context.Context, _ []byte) (*ethereum.ECDSASignature, error) {
		close(parked)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	session := NewSession(results[0].Event, blockingSigner, remote)
	done := make(chan error, 1)
	go func() {
		_, err := session.Run(ctx)
		done <- err
	}()

	<-parked
	c.Assert(session.State(), qt.Equals, StateAwaitingSignature)
	cancel()

	err := <-done
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(session.State(), qt.Equals, StateIdle)
}

func TestRevealSessionNotReusableWhileRunning(t *testing.T) {
	c := qt.New(t)
	_, holder, results, remote := testSetup(t)

	session := NewSession(results[0].Event, autoSigner(holder), remote)
	_, err := session.Run(context.Background())
	c.Assert(err, qt.IsNil)

	// completed sessions do not restart
	_, err = session.Run(context.Background())
	c.Assert(err, qt.IsNotNil)
}

func TestRevealMany(t *testing.T) {
	c := qt.New(t)
	_, holder, results, remote := testSetup(t)

	handles := []types.Handle{results[0].Event, results[1].Event, results[1].Total}
	values, err := RevealMany(context.Background(), handles, autoSigner(holder), remote)
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.DeepEquals, []uint64{7, 4, 11})
}
