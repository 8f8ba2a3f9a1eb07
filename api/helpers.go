package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/trust"
	"github.com/vocdoni/trustledger/types"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err.Error())
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err.Error())
		return
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err.Error())
	}
}

// userKeyFromRequest parses the user key URL parameter. The reserved zero
// key parses fine here; the service rejects it with its own error.
func userKeyFromRequest(r *http.Request) (types.UserKey, error) {
	return types.UserKeyFromHex(chi.URLParam(r, UserKeyURLParam))
}

// uint32QueryParam parses a required numeric query parameter.
func uint32QueryParam(r *http.Request, name string) (uint32, error) {
	v, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// writeServiceError maps the service error taxonomy onto the coded API
// error catalog.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trust.ErrInvalidAddress):
		ErrReservedUserKey.Write(w)
	case errors.Is(err, trust.ErrEmptyProof):
		ErrEmptyProof.Write(w)
	case errors.Is(err, engine.ErrInvalidProof):
		ErrInvalidProof.WithErr(err).Write(w)
	case errors.Is(err, trust.ErrCapacityExceeded):
		ErrCapacityExceeded.Write(w)
	case errors.Is(err, trust.ErrIndexOutOfBounds):
		ErrIndexOutOfBounds.Write(w)
	case errors.Is(err, trust.ErrInvalidRange):
		ErrInvalidRange.Write(w)
	case errors.Is(err, trust.ErrRangeOutOfBounds):
		ErrRangeOutOfBounds.Write(w)
	case errors.Is(err, trust.ErrBatchSizeInvalid):
		ErrBatchSizeInvalid.WithErr(err).Write(w)
	case errors.Is(err, engine.ErrCapabilityDenied):
		ErrCapabilityDenied.Write(w)
	case errors.Is(err, engine.ErrUnknownHandle):
		ErrUnknownHandle.Write(w)
	case errors.Is(err, storage.ErrNotFound):
		ErrResourceNotFound.Write(w)
	default:
		ErrGenericInternalServerError.WithErr(err).Write(w)
	}
}
