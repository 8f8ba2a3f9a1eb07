package engine

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/vocdoni/trustledger/crypto/ecc"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/types"
)

// ErrCapabilityDenied is returned when the requesting principal holds no
// decrypt grant on the handle.
var ErrCapabilityDenied = errors.New("no decrypt capability on handle")

// ErrUnknownHandle is returned when the handle does not resolve to a
// ciphertext in the arena.
var ErrUnknownHandle = errors.New("unknown ciphertext handle")

// LedgerDirectory is the slice of the storage layer the re-encryption
// service needs: handle resolution and capability checks.
type LedgerDirectory interface {
	Ciphertext(handle types.Handle) (*elgamal.Ciphertext, error)
	MayDecrypt(handle types.Handle, principal types.Principal) (bool, error)
}

// ReencryptionService is the system-side half of the reveal protocol. Given
// a handle, an ephemeral session public key and the holder's authorization
// signature, it checks the capability directory and returns the value
// re-encrypted under the session key, so only the holder can open it.
type ReencryptionService struct {
	engine *Engine
	ledger LedgerDirectory
}

// NewReencryptionService wires the engine to the capability directory and
// ciphertext arena.
func NewReencryptionService(e *Engine, ledger LedgerDirectory) *ReencryptionService {
	return &ReencryptionService{engine: e, ledger: ledger}
}

// ReencryptRequestMessage is the exact payload the holder signs to
// authorize re-encryption of one handle under one session key. Both sides
// of the protocol must build it identically.
func ReencryptRequestMessage(handle types.Handle, sessionKey ecc.Point) []byte {
	return fmt.Appendf(nil, "trustledger reencrypt %s under %x", handle.String(), sessionKey.Marshal())
}

// Reencrypt authorizes and serves one re-encryption request. The holder is
// recovered from the signature, so an attacker cannot request on behalf of
// someone else; a holder without a grant fails ErrCapabilityDenied before
// any key material is touched.
func (s *ReencryptionService) Reencrypt(
	handle types.Handle,
	sessionKey ecc.Point,
	signature *ethereum.ECDSASignature,
) (*elgamal.Ciphertext, error) {
	if len(handle) != types.HandleLength {
		return nil, fmt.Errorf("%w: malformed handle", ErrUnknownHandle)
	}
	holder, err := ethereum.AddrFromSignature(ReencryptRequestMessage(handle, sessionKey), signature)
	if err != nil {
		return nil, fmt.Errorf("recover holder from signature: %w", err)
	}
	principal := types.PrincipalFromUser(types.UserKey(holder))

	ok, err := s.ledger.MayDecrypt(handle, principal)
	if err != nil {
		return nil, fmt.Errorf("capability check: %w", err)
	}
	if !ok {
		log.Warnw("reencryption denied", "handle", handle.String(), "holder", holder.Hex())
		return nil, ErrCapabilityDenied
	}

	ct, err := s.ledger.Ciphertext(handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownHandle, err)
	}
	value, err := s.engine.Open(ct)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	sealed, err := elgamal.NewCiphertext(sessionKey).Encrypt(new(big.Int).SetUint64(value), sessionKey, nil)
	if err != nil {
		return nil, fmt.Errorf("seal under session key: %w", err)
	}
	log.Debugw("reencryption served", "handle", handle.String(), "holder", holder.Hex())
	return sealed, nil
}
