package keys

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists generated key pairs as PEM rows so every service
// instance signs and verifies with the same material.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, name string, keyType KeyType) (*KeyPair, error) {
	pair, err := s.get(ctx, name, keyType)
	if err == nil || !errors.Is(err, pgx.ErrNoRows) {
		return pair, err
	}

	generated, err := generate(name, keyType)
	if err != nil {
		return nil, err
	}

	encoded, err := encodePrivateKey(generated.Private)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key %q: %w", name, err)
	}

	query := `
		INSERT INTO signing_keys (name, key_type, private_key_pem)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`

	result, err := s.pool.Exec(ctx, query, name, string(keyType), encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to store key %q: %w", name, err)
	}

	// Lost race: another instance inserted first, use its key.
	if result.RowsAffected() == 0 {
		return s.get(ctx, name, keyType)
	}

	return generated, nil
}

func (s *PostgresStore) get(ctx context.Context, name string, keyType KeyType) (*KeyPair, error) {
	query := `
		SELECT key_type, private_key_pem
		FROM signing_keys
		WHERE name = $1
	`

	var storedType, encoded string
	err := s.pool.QueryRow(ctx, query, name).Scan(&storedType, &encoded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load key %q: %w", name, err)
	}

	if KeyType(storedType) != keyType {
		return nil, fmt.Errorf("%w: %q is %s, requested %s", ErrKeyTypeMismatch, name, storedType, keyType)
	}

	private, err := decodePrivateKey(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key %q: %w", name, err)
	}

	return &KeyPair{Name: name, Type: keyType, Private: private}, nil
}
