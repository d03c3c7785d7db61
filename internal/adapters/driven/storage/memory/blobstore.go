package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	types map[string]string
}

// NewBlobStore creates an empty blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

// Put stores a copy of data under key.
func (s *BlobStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return nil
}

// Get returns a copy of the blob stored under key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the blob under key. Missing blobs are not an error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	delete(s.types, key)
	return nil
}

// ContentType returns the content type recorded for key.
func (s *BlobStore) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[key]
}

// Len returns the number of stored blobs.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
