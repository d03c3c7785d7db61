// Package redis provides a Redis-backed implementation of driven.StateStore.
// Records are stored as plain string values under a configurable key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.StateStore = (*Store)(nil)

// DefaultPrefix namespaces QuickPass records in a shared database.
const DefaultPrefix = "quickpass:"

// Options configures a Store.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every record key. Empty uses DefaultPrefix.
	Prefix string

	// MaxBytes rejects larger records with domain.ErrQuotaExceeded. Zero disables the limit.
	MaxBytes int
}

// Store persists records in Redis.
type Store struct {
	client   *redis.Client
	prefix   string
	maxBytes int
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewStoreWithClient(client, opts.Prefix, opts.MaxBytes), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *redis.Client, prefix string, maxBytes int) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, maxBytes: maxBytes}
}

// Load returns the record stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("record %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", key, err)
	}
	return data, nil
}

// Save stores or replaces the record under key. Records never expire.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: record %s is %d bytes, limit is %d", domain.ErrQuotaExceeded, key, len(data), s.maxBytes)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving record %s: %w", key, err)
	}
	return nil
}

// Delete removes the record under key. Missing records are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("deleting record %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
