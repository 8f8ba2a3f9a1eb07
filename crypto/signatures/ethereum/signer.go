package ethereum

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Signer wraps a secp256k1 private key and provides helpers for signing
// Ethereum-prefixed messages and deriving the corresponding address.
type Signer ecdsa.PrivateKey

// NewSigner generates a fresh random key.
func NewSigner() (*Signer, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return (*Signer)(key), nil
}

// NewSignerFromHex creates a Signer from a hex-encoded private key.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("could not decode private key: %w", err)
	}
	return (*Signer)(key), nil
}

// PrivateKey returns the underlying ecdsa private key.
func (s *Signer) PrivateKey() *ecdsa.PrivateKey {
	return (*ecdsa.PrivateKey)(s)
}

// Address returns the Ethereum address derived from the signer's public key.
func (s *Signer) Address() common.Address {
	return ethcrypto.PubkeyToAddress(s.PublicKey)
}

// Sign hashes the message with the Ethereum prefix and signs it, returning
// the signature decomposed into its R, S and recovery components.
func (s *Signer) Sign(message []byte) (*ECDSASignature, error) {
	ethSignature, err := ethcrypto.Sign(HashMessage(message), s.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("could not sign message: %w", err)
	}
	if len(ethSignature) != SignatureLength {
		return nil, fmt.Errorf("unexpected signature length %d", len(ethSignature))
	}
	return &ECDSASignature{
		R:        new(big.Int).SetBytes(ethSignature[:32]),
		S:        new(big.Int).SetBytes(ethSignature[32:64]),
		recovery: ethSignature[64],
	}, nil
}

// HashMessage prepends the standard Ethereum signing prefix with the payload
// length and returns the keccak256 hash of the result.
func HashMessage(payload []byte) []byte {
	return ethcrypto.Keccak256([]byte(fmt.Sprintf("%s%d%s", SigningPrefix, len(payload), payload)))
}
