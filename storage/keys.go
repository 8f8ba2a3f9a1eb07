package storage

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/trustledger/crypto/ecc"
	bjj "github.com/vocdoni/trustledger/crypto/ecc/bjj_iden3"
	"github.com/vocdoni/trustledger/crypto/ecc/curves"
	"github.com/vocdoni/trustledger/crypto/elgamal"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/types"
)

// EncryptionKeys is the stored form of the system ElGamal key pair.
type EncryptionKeys struct {
	X          *types.BigInt
	Y          *types.BigInt
	PrivateKey *types.BigInt
}

// systemKeyID is the fixed key of the single system key pair.
var systemKeyID = []byte("system")

// SetEncryptionKeys stores the system encryption key pair.
func (s *Storage) SetEncryptionKeys(publicKey ecc.Point, privateKey *big.Int) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.setEncryptionKeysUnsafe(publicKey, privateKey)
}

// EncryptionKeys loads the system encryption key pair. Returns ErrNotFound
// if no keys have been stored yet.
func (s *Storage) EncryptionKeys() (ecc.Point, *big.Int, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.encryptionKeysUnsafe()
}

// FetchOrGenerateEncryptionKeys loads the system encryption key pair. If no
// keys exist yet, a fresh pair is generated and persisted.
func (s *Storage) FetchOrGenerateEncryptionKeys() (ecc.Point, *big.Int, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	pub, priv, err := s.encryptionKeysUnsafe()
	if err == nil {
		return pub, priv, nil
	}
	pub, priv, err = elgamal.GenerateKey(curves.New(bjj.CurveType))
	if err != nil {
		return nil, nil, fmt.Errorf("generate encryption keys: %w", err)
	}
	if err := s.setEncryptionKeysUnsafe(pub, priv); err != nil {
		return nil, nil, fmt.Errorf("persist encryption keys: %w", err)
	}
	log.Infow("generated new system encryption keys", "publicKey", pub.String())
	return pub, priv, nil
}

func (s *Storage) setEncryptionKeysUnsafe(publicKey ecc.Point, privateKey *big.Int) error {
	x, y := publicKey.Point()
	return s.setArtifact(encryptionKeyPrefix, systemKeyID, &EncryptionKeys{
		X:          types.BigIntConverter(x),
		Y:          types.BigIntConverter(y),
		PrivateKey: types.BigIntConverter(privateKey),
	})
}

func (s *Storage) encryptionKeysUnsafe() (ecc.Point, *big.Int, error) {
	eks := new(EncryptionKeys)
	if err := s.getArtifact(encryptionKeyPrefix, systemKeyID, eks); err != nil {
		return nil, nil, err
	}
	if eks.X == nil || eks.Y == nil || eks.PrivateKey == nil {
		return nil, nil, fmt.Errorf("malformed encryption keys")
	}
	pub := curves.New(bjj.CurveType).SetPoint(eks.X.MathBigInt(), eks.Y.MathBigInt())
	return pub, eks.PrivateKey.MathBigInt(), nil
}
