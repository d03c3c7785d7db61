package driven

import "context"

// StateStore persists independently-keyed records (user, cart, orders).
// Values are opaque JSON documents produced by the core.
type StateStore interface {
	// Load returns the stored bytes for key.
	// Returns domain.ErrNotFound if no record exists.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the record for key.
	// Returns an error wrapping domain.ErrQuotaExceeded when data exceeds the store limit.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the record for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
