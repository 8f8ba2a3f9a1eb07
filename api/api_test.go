package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/db/metadb"
	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/reveal"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/trust"
	"github.com/vocdoni/trustledger/types"
)

type testAPI struct {
	server *httptest.Server
	engine *engine.Engine
}

func newTestAPI(t *testing.T) *testAPI {
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
	a := &API{
		service:     trust.New(stg, eng, nil),
		reencryptor: engine.NewReencryptionService(eng, stg),
	}
	a.initRouter()
	server := httptest.NewServer(a.Router())
	t.Cleanup(server.Close)
	return &testAPI{server: server, engine: eng}
}

func (ta *testAPI) request(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ta.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := ta.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("close response body: %v", err)
		}
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshal response %q: %v", data, err)
		}
	}
	return resp.StatusCode
}

func trustPath(user types.UserKey, suffix string) string {
	return "/trust/" + user.String() + suffix
}

func TestAPIRecordAndQuery(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t)
	var user types.UserKey
	user[19] = 1

	// record two scores
	for i, score := range []uint64{7, 5} {
		ct, proof, err := engine.EncryptInput(ta.engine.PublicKey(), score, user)
		c.Assert(err, qt.IsNil)
		var res storage.AppendResult
		status := ta.request(t, http.MethodPost, trustPath(user, "/events"),
			&RecordEventRequest{Ciphertext: ct, Proof: proof}, &res)
		c.Assert(status, qt.Equals, http.StatusOK)
		c.Assert(res.Index, qt.Equals, uint32(i))
	}

	var count CountResponse
	status := ta.request(t, http.MethodGet, trustPath(user, "/count"), nil, &count)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(count.Count, qt.Equals, uint32(2))

	var total HandleResponse
	status = ta.request(t, http.MethodGet, trustPath(user, "/total"), nil, &total)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(total.Handle, qt.HasLen, types.HandleLength)

	var rng RangeResponse
	status = ta.request(t, http.MethodGet, trustPath(user, "/events?start=0&end=2"), nil, &rng)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(rng.Handles, qt.HasLen, 2)

	var byIndex HandleResponse
	status = ta.request(t, http.MethodGet, trustPath(user, "/events/1"), nil, &byIndex)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(byIndex.Handle, qt.DeepEquals, rng.Handles[1])

	var live types.Statistics
	status = ta.request(t, http.MethodGet, trustPath(user, "/stats"), nil, &live)
	c.Assert(status, qt.Equals, http.StatusOK)
	var cached types.Statistics
	status = ta.request(t, http.MethodGet, trustPath(user, "/stats/cached"), nil, &cached)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(cached, qt.DeepEquals, live)
}

func TestAPIErrorCodes(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t)
	var user types.UserKey
	user[19] = 1
	zero := types.UserKey{}

	// reserved key on an aggregate lookup
	status := ta.request(t, http.MethodGet, trustPath(zero, "/total"), nil, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// malformed user key
	status = ta.request(t, http.MethodGet, "/trust/nothex/total", nil, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// bounds failures on an empty history
	status = ta.request(t, http.MethodGet, trustPath(user, "/events/0"), nil, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
	status = ta.request(t, http.MethodGet, trustPath(user, "/events?start=1&end=1"), nil, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	// empty proof on record
	status = ta.request(t, http.MethodPost, trustPath(user, "/events"),
		&RecordEventRequest{Ciphertext: types.HexBytes{0x01}}, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
}

func TestAPIValidateBatch(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t)
	var user types.UserKey
	user[19] = 2

	req := &ValidateBatchRequest{Submitter: user}
	for _, score := range []uint64{5, 12} {
		ct, proof, err := engine.EncryptInput(ta.engine.PublicKey(), score, user)
		c.Assert(err, qt.IsNil)
		req.Ciphertexts = append(req.Ciphertexts, types.HexBytes(ct))
		req.Proofs = append(req.Proofs, types.HexBytes(proof))
	}

	var res ValidateBatchResponse
	status := ta.request(t, http.MethodPost, "/trust/validate", req, &res)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(res.Results, qt.DeepEquals, []bool{true, false})

	// empty batch fails with the coded batch error
	status = ta.request(t, http.MethodPost, "/trust/validate",
		&ValidateBatchRequest{Submitter: user}, nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
}

// httpRemote drives the reveal protocol against the HTTP endpoint.
type httpRemote struct {
	t  *testing.T
	ta *testAPI
}

func (h httpRemote) Reencrypt(_ context.Context, handle types.Handle, sessionKey ecc.Point,
	signature *ethereum.ECDSASignature,
) (*elgamal.Ciphertext, error) {
	var res RevealResponse
	status := h.ta.request(h.t, http.MethodPost, "/reveal", &RevealRequest{
		Handle:           handle,
		SessionPublicKey: sessionKey.Marshal(),
		Signature:        signature.Bytes(),
	}, &res)
	if status == http.StatusForbidden {
		return nil, engine.ErrCapabilityDenied
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("reveal endpoint returned status %d", status)
	}
	return elgamal.DeserializeCiphertext(res.Ciphertext)
}

func TestAPIReveal(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t)

	holder, err := ethereum.NewSigner()
	c.Assert(err, qt.IsNil)
	user := types.UserKey(holder.Address())

	ct, proof, err := engine.EncryptInput(ta.engine.PublicKey(), 9, user)
	c.Assert(err, qt.IsNil)
	var res storage.AppendResult
	status := ta.request(t, http.MethodPost, trustPath(user, "/events"),
		&RecordEventRequest{Ciphertext: ct, Proof: proof}, &res)
	c.Assert(status, qt.Equals, http.StatusOK)

	signer := func(_ context.Context, message []byte) (*ethereum.ECDSASignature, error) {
		return holder.Sign(message)
	}
	value, err := reveal.NewSession(res.Event, signer, httpRemote{t, ta}).Run(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, uint64(9))

	// a stranger cannot reveal the same handle
	stranger, err := ethereum.NewSigner()
	c.Assert(err, qt.IsNil)
	strangerSigner := func(_ context.Context, message []byte) (*ethereum.ECDSASignature, error) {
		return stranger.Sign(message)
	}
	_, err = reveal.NewSession(res.Event, strangerSigner, httpRemote{t, ta}).Run(context.Background())
	c.Assert(err, qt.ErrorIs, engine.ErrCapabilityDenied)
}
