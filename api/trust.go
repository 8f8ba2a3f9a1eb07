package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	bjj "github.com/vocdoni/trustledger/crypto/ecc/bjj_iden3"
	"github.com/vocdoni/trustledger/crypto/ecc/curves"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/types"
)

// recordEvent handles POST /trust/{userKey}/events. It submits a new
// encrypted score with its proof and returns the handles produced by the
// append.
func (a *API) recordEvent(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	req := &RecordEventRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	result, err := a.service.RecordEvent(user, req.Ciphertext, req.Proof)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, result)
}

// total handles GET /trust/{userKey}/total.
func (a *API) total(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	handle, err := a.service.Total(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &HandleResponse{Handle: handle})
}

// average handles GET /trust/{userKey}/average.
func (a *API) average(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	handle, err := a.service.Average(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &HandleResponse{Handle: handle})
}

// eventCount handles GET /trust/{userKey}/count.
func (a *API) eventCount(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	count, err := a.service.EventCount(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &CountResponse{Count: count})
}

// historyLength handles GET /trust/{userKey}/history/length.
func (a *API) historyLength(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	length, err := a.service.HistoryLength(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &CountResponse{Count: length})
}

// lastActivity handles GET /trust/{userKey}/activity.
func (a *API) lastActivity(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	activity, err := a.service.LastActivity(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &ActivityResponse{LastActivity: activity})
}

// eventByIndex handles GET /trust/{userKey}/events/{index}.
func (a *API) eventByIndex(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	index, err := strconv.ParseUint(chi.URLParam(r, IndexURLParam), 10, 32)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	handle, err := a.service.ByIndex(user, uint32(index))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &HandleResponse{Handle: handle})
}

// eventRange handles GET /trust/{userKey}/events?start=S&end=E.
func (a *API) eventRange(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	start, err := uint32QueryParam(r, RangeStartQueryParam)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	end, err := uint32QueryParam(r, RangeEndQueryParam)
	if err != nil {
		ErrMalformedParam.WithErr(err).Write(w)
		return
	}
	handles, err := a.service.Range(user, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &RangeResponse{Handles: handles})
}

// liveStatistics handles GET /trust/{userKey}/stats. The live read emits a
// StatisticsViewed notification and refreshes the cached snapshot.
func (a *API) liveStatistics(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	stats, err := a.service.LiveStatistics(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, stats)
}

// cachedStatistics handles GET /trust/{userKey}/stats/cached, a read
// without side effects.
func (a *API) cachedStatistics(w http.ResponseWriter, r *http.Request) {
	user, err := userKeyFromRequest(r)
	if err != nil {
		ErrMalformedUserKey.WithErr(err).Write(w)
		return
	}
	stats, err := a.service.CachedStatistics(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, stats)
}

// validateBatch handles POST /trust/validate.
func (a *API) validateBatch(w http.ResponseWriter, r *http.Request) {
	req := &ValidateBatchRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	ciphertexts := types.SliceOf(req.Ciphertexts, func(b types.HexBytes) []byte { return b })
	proofs := types.SliceOf(req.Proofs, func(b types.HexBytes) []byte { return b })
	results, err := a.service.ValidateBatch(req.Submitter, ciphertexts, proofs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpWriteJSON(w, &ValidateBatchResponse{Results: results})
}

// reveal handles POST /reveal: the system-side re-encryption step of the
// reveal protocol.
func (a *API) reveal(w http.ResponseWriter, r *http.Request) {
	req := &RevealRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	sessionKey := curves.New(bjj.CurveType)
	if err := sessionKey.Unmarshal(req.SessionPublicKey); err != nil {
		ErrMalformedSessionKey.WithErr(err).Write(w)
		return
	}
	signature, err := ethereum.BytesToSignature(req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	sealed, err := a.reencryptor.Reencrypt(req.Handle, sessionKey, signature)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	data, err := sealed.Serialize()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &RevealResponse{Ciphertext: data})
}
