package keys_test

import (
	"context"
	"errors"
	"testing"

	"rights-service/internal/keys"
)

func TestMemoryStore_GeneratesOnFirstLoad(t *testing.T) {
	store := keys.NewMemoryStore()

	pair, err := store.Load(context.Background(), "signing", keys.TypeECDSA)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if pair.Private == nil {
		t.Fatal("Load() returned pair without private key")
	}
	if pair.Name != "signing" || pair.Type != keys.TypeECDSA {
		t.Errorf("Load() = {%s %s}, expected {signing ECDSA}", pair.Name, pair.Type)
	}
}

func TestMemoryStore_ReturnsSameKeyOnReload(t *testing.T) {
	store := keys.NewMemoryStore()

	first, err := store.Load(context.Background(), "signing", keys.TypeECDSA)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	second, err := store.Load(context.Background(), "signing", keys.TypeECDSA)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if !first.Private.Equal(second.Private) {
		t.Error("reloading the same name must return the same key material")
	}
}

func TestMemoryStore_DistinctNamesDistinctKeys(t *testing.T) {
	store := keys.NewMemoryStore()

	a, err := store.Load(context.Background(), "signing", keys.TypeECDSA)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	b, err := store.Load(context.Background(), "fake-keys", keys.TypeECDSA)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if a.Private.Equal(b.Private) {
		t.Error("distinct key names must yield distinct key material")
	}
}

func TestMemoryStore_UnsupportedType(t *testing.T) {
	store := keys.NewMemoryStore()

	_, err := store.Load(context.Background(), "signing", keys.KeyType("RSA"))
	if !errors.Is(err, keys.ErrUnsupportedKeyType) {
		t.Errorf("Load() = %v, expected ErrUnsupportedKeyType", err)
	}
}

func TestMemoryStore_TypeMismatch(t *testing.T) {
	store := keys.NewMemoryStore()

	if _, err := store.Load(context.Background(), "signing", keys.TypeECDSA); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	_, err := store.Load(context.Background(), "signing", keys.KeyType("RSA"))
	if !errors.Is(err, keys.ErrKeyTypeMismatch) {
		t.Errorf("Load() = %v, expected ErrKeyTypeMismatch", err)
	}
}
