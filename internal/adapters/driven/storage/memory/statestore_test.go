package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestStateStore_SaveLoadDelete(t *testing.T) {
	store := NewStateStore(0)
	ctx := context.Background()

	_, err := store.Load(ctx, domain.RecordCart)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, domain.RecordCart, []byte(`[]`)))
	data, err := store.Load(ctx, domain.RecordCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	require.NoError(t, store.Delete(ctx, domain.RecordCart))
	require.NoError(t, store.Delete(ctx, domain.RecordCart))
	assert.Empty(t, store.Keys())
}

func TestStateStore_CopiesData(t *testing.T) {
	store := NewStateStore(0)
	ctx := context.Background()

	buf := []byte(`{"a":1}`)
	require.NoError(t, store.Save(ctx, "k", buf))
	buf[0] = 'X'

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestStateStore_MaxBytes(t *testing.T) {
	store := NewStateStore(4)
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "k", []byte("1234")))
	assert.ErrorIs(t, store.Save(ctx, "k", []byte("12345")), domain.ErrQuotaExceeded)
}

func TestStateStore_FailWith(t *testing.T) {
	store := NewStateStore(0)
	ctx := context.Background()
	boom := errors.New("disk unplugged")

	store.FailWith(boom)
	assert.ErrorIs(t, store.Save(ctx, "k", []byte("x")), boom)

	store.FailWith(nil)
	assert.NoError(t, store.Save(ctx, "k", []byte("x")))
}

func TestBlobStore(t *testing.T) {
	store := NewBlobStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "images/a.jpg", []byte{1, 2, 3}, "image/jpeg"))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "image/jpeg", store.ContentType("images/a.jpg"))

	data, err := store.Get(ctx, "images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, store.Delete(ctx, "images/a.jpg"))
	_, err = store.Get(ctx, "images/a.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
