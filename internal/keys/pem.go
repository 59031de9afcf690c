package keys

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

const pemBlockType = "EC PRIVATE KEY"

func encodePrivateKey(private *ecdsa.PrivateKey) (string, error) {
	der, err := x509.MarshalECPrivateKey(private)
	if err != nil {
		return "", fmt.Errorf("failed to marshal private key: %w", err)
	}

	encoded := pem.EncodeToMemory(&pem.Block{Type: pemBlockType, Bytes: der})
	return string(encoded), nil
}

func decodePrivateKey(encoded string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil || block.Type != pemBlockType {
		return nil, fmt.Errorf("no %s PEM block found", pemBlockType)
	}

	private, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return private, nil
}
