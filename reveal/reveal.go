// Package reveal implements the client-side two-phase reveal protocol: the
// holder of a ciphertext handle generates an ephemeral session key pair,
// authorizes the re-encryption with a signature, sends the request to the
// remote re-encryption service and opens the sealed result locally. The
// session private key never leaves the client and the system never learns
// it, so only the holder can read the revealed value.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vocdoni/trustledger/crypto/ecc"
	bjj "github.com/vocdoni/trustledger/crypto/ecc/bjj_iden3"
	"github.com/vocdoni/trustledger/crypto/ecc/curves"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/crypto/signatures/ethereum"
	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/types"
)

// ErrRemoteServiceUnavailable is reported when the remote re-encryption
// round trip fails. The session resets to idle and the holder may retry
// manually; no automatic retry happens here.
var ErrRemoteServiceUnavailable = errors.New("remote re-encryption service unavailable")

// State of a reveal session. Transitions are strictly sequential with no
// backward moves except the reset to idle on failure or cancellation.
type State string

const (
	StateIdle                   State = "idle"
	StateGeneratingSessionKeys  State = "generating_session_keys"
	StateAwaitingSignature      State = "awaiting_authorization_signature"
	StateRequestingReencryption State = "requesting_remote_reencryption"
	StateOpeningLocally         State = "opening_locally"
	StateCompleted              State = "completed"
)

// SignerFunc produces the holder's authorization signature over a message.
// It may block on human approval for an unbounded time; it must honor the
// context to make a parked session cancellable.
type SignerFunc func(ctx context.Context, message []byte) (*ethereum.ECDSASignature, error)

// Reencryptor is the remote re-encryption service interface. An
// implementation returns engine.ErrCapabilityDenied when the recovered
// holder has no grant on the handle; any other failure counts as the
// service being unavailable.
type Reencryptor interface {
	Reencrypt(ctx context.Context, handle types.Handle, sessionKey ecc.Point,
		signature *ethereum.ECDSASignature) (*elgamal.Ciphertext, error)
}

// Session is one reveal state machine for one ciphertext handle. Sessions
// for different handles are independent and may run concurrently.
type Session struct {
	id     uuid.UUID
	handle types.Handle
	signer SignerFunc
	remote Reencryptor

	mu    sync.Mutex
	state State
	value uint64
}

// NewSession creates an idle session for the given handle.
func NewSession(handle types.Handle, signer SignerFunc, remote Reencryptor) *Session {
	return &Session{
		id:     uuid.New(),
		handle: handle,
		signer: signer,
		remote: remote,
		state:  StateIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Handle returns the ciphertext handle this session reveals.
func (s *Session) Handle() types.Handle { return s.handle }

// State returns the current protocol state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Value returns the revealed value once the session is completed.
func (s *Session) Value() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.state == StateCompleted
}

func (s *Session) transition(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// reset discards the session on failure. Local session key material simply
// goes out of scope; nothing was committed system-side.
func (s *Session) reset(err error) error {
	s.transition(StateIdle)
	return err
}

// Run drives the session through all states and returns the revealed
// value. Cancelling the context at any point resets the session to idle.
// The session holds no lock on any system-side component while parked.
func (s *Session) Run(ctx context.Context) (uint64, error) {
	if state := s.State(); state != StateIdle {
		return 0, fmt.Errorf("session %s already running (state %s)", s.id, state)
	}

	s.transition(StateGeneratingSessionKeys)
	sessionPub, sessionPriv, err := elgamal.GenerateKey(curves.New(bjj.CurveType))
	if err != nil {
		return 0, s.reset(fmt.Errorf("generate session keys: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return 0, s.reset(err)
	}

	// parked until the holder approves; no timeout is enforced here
	s.transition(StateAwaitingSignature)
	signature, err := s.signer(ctx, engine.ReencryptRequestMessage(s.handle, sessionPub))
	if err != nil {
		return 0, s.reset(fmt.Errorf("authorization signature: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return 0, s.reset(err)
	}

	s.transition(StateRequestingReencryption)
	sealed, err := s.remote.Reencrypt(ctx, s.handle, sessionPub, signature)
	if err != nil {
		if errors.Is(err, engine.ErrCapabilityDenied) || errors.Is(err, context.Canceled) {
			return 0, s.reset(err)
		}
		log.Warnw("reveal remote round trip failed", "session", s.id.String(), "error", err.Error())
		return 0, s.reset(fmt.Errorf("%w: %v", ErrRemoteServiceUnavailable, err))
	}

	s.transition(StateOpeningLocally)
	value, err := openSealed(sessionPub, sessionPriv, sealed)
	if err != nil {
		return 0, s.reset(fmt.Errorf("open sealed value: %w", err))
	}

	s.mu.Lock()
	s.state = StateCompleted
	s.value = value
	s.mu.Unlock()
	log.Debugw("reveal completed", "session", s.id.String(), "handle", s.handle.String())
	return value, nil
}

// openSealed decrypts the re-encrypted value with the session private key.
// Purely local computation.
func openSealed(sessionPub ecc.Point, sessionPriv *big.Int, sealed *elgamal.Ciphertext) (uint64, error) {
	const maxValue = 1<<types.ScoreBitWidth - 1
	_, m, err := elgamal.Decrypt(sessionPub, sessionPriv, sealed.C1, sealed.C2, maxValue)
	if err != nil {
		return 0, err
	}
	return m.Uint64(), nil
}

// RevealMany runs one independent session per handle concurrently and
// returns the revealed values aligned with the input handles. The first
// failing session cancels the rest.
func RevealMany(ctx context.Context, handles []types.Handle, signer SignerFunc, remote Reencryptor) ([]uint64, error) {
	values := make([]uint64, len(handles))
	g, ctx := errgroup.WithContext(ctx)
	for i, handle := range handles {
		g.Go(func() error {
			v, err := NewSession(handle, signer, remote).Run(ctx)
			if err != nil {
				return fmt.Errorf("handle %s: %w", handle.String(), err)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
