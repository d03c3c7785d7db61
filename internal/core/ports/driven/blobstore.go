package driven

import "context"

// BlobStore keeps rendered image payloads outside the persisted records.
// It is optional: without one, images are embedded in the records.
type BlobStore interface {
	// Put stores data under key, replacing any previous blob.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the blob for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
