package keys

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
)

// KeyType tags the algorithm family of a stored key pair.
type KeyType string

const TypeECDSA KeyType = "ECDSA"

var (
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	ErrKeyTypeMismatch    = errors.New("key exists with a different type")
)

// KeyPair is named, typed asymmetric key material. Signing keys for ES512
// tokens are P-521 ECDSA pairs.
type KeyPair struct {
	Name    string
	Type    KeyType
	Private *ecdsa.PrivateKey
}

func (kp *KeyPair) Public() *ecdsa.PublicKey {
	return &kp.Private.PublicKey
}

// Manager resolves named, typed signing key pairs. Load generates the pair
// on first use and returns the same material on every later call; a failure
// to resolve a configured key name is a configuration fault the caller must
// surface, not a validation outcome.
type Manager interface {
	Load(ctx context.Context, name string, keyType KeyType) (*KeyPair, error)
}

func generate(name string, keyType KeyType) (*KeyPair, error) {
	if keyType != TypeECDSA {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, keyType)
	}

	private, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key %q: %w", keyType, name, err)
	}

	return &KeyPair{Name: name, Type: keyType, Private: private}, nil
}
