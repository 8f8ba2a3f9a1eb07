// Package types contains the shared types and constants of the trustledger
// node: user keys, ciphertext handles, principals and the packed statistics
// snapshot.
package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// UserKeyLength is the size in bytes of a user key.
	UserKeyLength = 20
	// HandleLength is the size in bytes of a ciphertext handle.
	HandleLength = 32

	// MaxTrustEvents is the hard cap of trust events per user.
	MaxTrustEvents = 1000
	// MinScore and MaxScore bound the valid score range checked by the
	// batch validity operation. The record path does not range-check.
	MinScore = 1
	MaxScore = 10
	// MaxBatchSize is the business-rule bound on a validity batch.
	MaxBatchSize = 10
	// AbsMaxBatchSize is the absolute hard cap on a validity batch. The
	// tighter MaxBatchSize bound fires first.
	AbsMaxBatchSize = 50

	// ScoreBitWidth is the fixed width of the encrypted integer type.
	ScoreBitWidth = 32
)

// UserKey identifies the owner of a trust history. The all-zero key is
// reserved and rejected by every operation that dereferences per-user
// storage.
type UserKey [UserKeyLength]byte

// UserKeyFromBytes builds a UserKey from a byte slice of exactly
// UserKeyLength bytes.
func UserKeyFromBytes(b []byte) (UserKey, error) {
	var u UserKey
	if len(b) != UserKeyLength {
		return u, fmt.Errorf("user key must be %d bytes, got %d", UserKeyLength, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// UserKeyFromHex parses a 0x-prefixed or bare hex user key.
func UserKeyFromHex(s string) (UserKey, error) {
	if !common.IsHexAddress(s) {
		return UserKey{}, fmt.Errorf("malformed user key %q", s)
	}
	return UserKey(common.HexToAddress(s)), nil
}

// IsZero reports whether the key is the reserved all-zero key.
func (u UserKey) IsZero() bool {
	return u == UserKey{}
}

// Bytes returns the raw key bytes.
func (u UserKey) Bytes() []byte { return u[:] }

// Address returns the key as an Ethereum address.
func (u UserKey) Address() common.Address { return common.Address(u) }

// String returns the checksummed hex representation.
func (u UserKey) String() string { return common.Address(u).Hex() }

// MarshalText implements encoding.TextMarshaler.
func (u UserKey) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UserKey) UnmarshalText(text []byte) error {
	k, err := UserKeyFromHex(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*u = k
	return nil
}

// Handle is the opaque reference to an encrypted value held in the
// ciphertext arena. It carries no plaintext. A nil or empty handle is the
// zero sentinel returned for never-active users.
type Handle = HexBytes

// Principal identifies a party that may hold capability grants: either a
// user key or the system itself.
type Principal HexBytes

// SystemPrincipal is the distinguished principal of the hosting system.
// Every ciphertext produced by an append or a fold is granted to it.
var SystemPrincipal = Principal("system")

// PrincipalFromUser derives the principal of a user key.
func PrincipalFromUser(u UserKey) Principal {
	return Principal(u.Bytes())
}

// IsSystem reports whether the principal is the system principal.
func (p Principal) IsSystem() bool {
	return bytes.Equal(p, SystemPrincipal)
}

// Bytes returns the raw principal bytes.
func (p Principal) Bytes() []byte { return p }

// String returns a printable representation of the principal.
func (p Principal) String() string {
	if p.IsSystem() {
		return "system"
	}
	hb := HexBytes(p)
	return hb.String()
}
