package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is an in-memory implementation of driven.StateStore.
type StateStore struct {
	mu       sync.RWMutex
	records  map[string][]byte
	maxBytes int
	failErr  error
}

// NewStateStore creates an empty store. Records larger than maxBytes are
// rejected with domain.ErrQuotaExceeded; zero disables the limit.
func NewStateStore(maxBytes int) *StateStore {
	return &StateStore{
		records:  make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

// FailWith makes every subsequent Save return err. Pass nil to recover.
func (s *StateStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Load returns a copy of the record stored under key.
func (s *StateStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key.
func (s *StateStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: record %s is %d bytes, limit is %d", domain.ErrQuotaExceeded, key, len(data), s.maxBytes)
	}
	s.records[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the record under key. Missing records are not an error.
func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Keys lists the stored record keys in sorted order.
func (s *StateStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
