package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/domain"
)

// setupTestRedis creates a miniredis server and a RedisSnapshots on top of it.
func setupTestRedis(t *testing.T) (*RedisSnapshots, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	snaps := NewRedisSnapshots(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return snaps, mr, cleanup
}

func TestRedisSnapshots_RoundTrip(t *testing.T) {
	snaps, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	items := []domain.LineItem{
		{ProductID: "p1", Name: "Cimento", Brand: "Votoran", Price: 32.5, Quantity: 2, ImageURL: "x"},
		{ProductID: "p2", Name: "Tinta", Price: 89.9, Quantity: 1, ImageURL: "y"},
	}

	require.NoError(t, snaps.Save(ctx, "s1", items))

	loaded, err := snaps.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestRedisSnapshots_LoadMissing(t *testing.T) {
	snaps, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := snaps.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisSnapshots_InvalidJSON(t *testing.T) {
	snaps, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(snapshotKey("s1"), "{not json")

	_, err := snaps.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRedisSnapshots_ShapeMismatchIsCorrupt(t *testing.T) {
	snaps, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	// parses as JSON but not as a line-item array
	mr.Set(snapshotKey("s1"), `[{"id":"","quantity":0}]`)

	_, err := snaps.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRedisSnapshots_Delete(t *testing.T) {
	snaps, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, snaps.Save(ctx, "s1", []domain.LineItem{{ProductID: "p1", Name: "Areia", Price: 10, Quantity: 1}}))
	require.NoError(t, snaps.Delete(ctx, "s1"))

	_, err := snaps.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStore_OnRedis_CorruptSnapshotRecovery(t *testing.T) {
	snaps, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(snapshotKey("s1"), "garbage")

	sut := NewStore(snaps, zap.NewNop())
	ctx := context.Background()

	assert.Empty(t, sut.GetCart(ctx, "s1"))
	// the corrupt entry was dropped
	assert.False(t, mr.Exists(snapshotKey("s1")))

	// and the session is fully usable afterwards
	sut.AddItem(ctx, "s1", cimento())
	assert.Equal(t, 1, sut.ItemCount(ctx, "s1"))
	assert.True(t, mr.Exists(snapshotKey("s1")))
}
