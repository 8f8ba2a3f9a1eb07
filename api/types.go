package api

import (
	"github.com/vocdoni/trustledger/types"
)

// RecordEventRequest is the body of POST /trust/{userKey}/events.
type RecordEventRequest struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
	Proof      types.HexBytes `json:"proof"`
}

// HandleResponse carries a single ciphertext handle. An empty handle is the
// "no data yet" sentinel of a never-active user.
type HandleResponse struct {
	Handle types.Handle `json:"handle"`
}

// CountResponse carries a plaintext counter.
type CountResponse struct {
	Count uint32 `json:"count"`
}

// ActivityResponse carries the last-activity timestamp.
type ActivityResponse struct {
	LastActivity int64 `json:"lastActivity"`
}

// RangeResponse carries the handles of one history range in index order.
type RangeResponse struct {
	Handles []types.Handle `json:"handles"`
}

// ValidateBatchRequest is the body of POST /trust/validate.
type ValidateBatchRequest struct {
	Submitter   types.UserKey    `json:"submitter"`
	Ciphertexts []types.HexBytes `json:"ciphertexts"`
	Proofs      []types.HexBytes `json:"proofs"`
}

// ValidateBatchResponse carries one boolean per submitted candidate.
type ValidateBatchResponse struct {
	Results []bool `json:"results"`
}

// RevealRequest is the body of POST /reveal: a re-encryption request from
// the client-side reveal protocol.
type RevealRequest struct {
	Handle           types.Handle   `json:"handle"`
	SessionPublicKey types.HexBytes `json:"sessionPublicKey"`
	Signature        types.HexBytes `json:"signature"`
}

// RevealResponse carries the value re-encrypted under the session key.
type RevealResponse struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
}
