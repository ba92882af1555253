//go:build unit

package cache

import (
	"context"
	"testing"
	"time"

	"pos-checkout/internal/usecase/shared"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReplayCache(t *testing.T) (*ReplayCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewReplayCache(client, 15*time.Minute), mr
}

func TestReplayCache_PutGet(t *testing.T) {
	c, mr := setupReplayCache(t)
	ctx := context.Background()
	businessID := uuid.New()
	entry := shared.ReplayEntry{SaleID: uuid.New(), RequestHash: "abc"}

	require.NoError(t, c.Put(ctx, businessID, "key-1", entry))

	got, err := c.Get(ctx, businessID, "key-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, *got)
	assert.Equal(t, 15*time.Minute, mr.TTL(replayKey(businessID, "key-1")))
}

func TestReplayCache_Miss(t *testing.T) {
	c, _ := setupReplayCache(t)

	got, err := c.Get(context.Background(), uuid.New(), "unknown")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplayCache_KeysAreScopedByBusiness(t *testing.T) {
	c, _ := setupReplayCache(t)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, uuid.New(), "shared-key", shared.ReplayEntry{SaleID: uuid.New(), RequestHash: "h"}))

	got, err := c.Get(ctx, uuid.New(), "shared-key")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplayCache_Expiry(t *testing.T) {
	c, mr := setupReplayCache(t)
	ctx := context.Background()
	businessID := uuid.New()
	require.NoError(t, c.Put(ctx, businessID, "k", shared.ReplayEntry{SaleID: uuid.New(), RequestHash: "h"}))

	mr.FastForward(16 * time.Minute)

	got, err := c.Get(ctx, businessID, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplayCache_CorruptEntry(t *testing.T) {
	c, mr := setupReplayCache(t)
	businessID := uuid.New()
	require.NoError(t, mr.Set(replayKey(businessID, "k"), "{not json"))

	_, err := c.Get(context.Background(), businessID, "k")

	assert.Error(t, err)
}

func TestReplayCache_ServerDown(t *testing.T) {
	c, mr := setupReplayCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), uuid.New(), "k")

	assert.Error(t, err)
}
