package keys

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps generated key pairs in a map. Intended for tests and
// single-process setups; distinct names always yield distinct pairs.
type MemoryStore struct {
	mutex sync.Mutex
	pairs map[string]*KeyPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pairs: make(map[string]*KeyPair),
	}
}

func (s *MemoryStore) Load(_ context.Context, name string, keyType KeyType) (*KeyPair, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if pair, ok := s.pairs[name]; ok {
		if pair.Type != keyType {
			return nil, fmt.Errorf("%w: %q is %s, requested %s", ErrKeyTypeMismatch, name, pair.Type, keyType)
		}
		return pair, nil
	}

	pair, err := generate(name, keyType)
	if err != nil {
		return nil, err
	}

	s.pairs[name] = pair
	return pair, nil
}
