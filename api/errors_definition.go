package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 403 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXX or 5XXX.
var (
	ErrResourceNotFound    = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody       = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature    = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid signature")}
	ErrMalformedUserKey    = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed user key")}
	ErrReservedUserKey     = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("reserved invalid user key")}
	ErrEmptyProof          = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("empty proof material")}
	ErrInvalidProof        = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proof")}
	ErrCapacityExceeded    = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("trust history capacity exceeded")}
	ErrIndexOutOfBounds    = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("index out of bounds")}
	ErrInvalidRange        = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid range")}
	ErrRangeOutOfBounds    = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("range out of bounds")}
	ErrBatchSizeInvalid    = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("batch size invalid")}
	ErrCapabilityDenied    = Error{Code: 40015, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("no decrypt capability on handle")}
	ErrUnknownHandle       = Error{Code: 40016, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("unknown ciphertext handle")}
	ErrMalformedParam      = Error{Code: 40017, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed parameter")}
	ErrMalformedSessionKey = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed session public key")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
