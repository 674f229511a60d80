package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noventicred/constrular/internal/domain"
)

// RedisSnapshots keeps one JSON array of line items per session under
// cart:<session>. Abandoned carts expire through the TTL; the jitter
// spreads expirations out.
type RedisSnapshots struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisSnapshots(client *redis.Client) *RedisSnapshots {
	return &RedisSnapshots{
		client:  client,
		baseTTL: 30 * 24 * time.Hour,
	}
}

func (r *RedisSnapshots) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	data, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	items, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	data, err := encodeSnapshot(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, snapshotKey(sessionID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshots) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func encodeSnapshot(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

// decodeSnapshot rejects anything that does not parse as a line-item
// array with sane entries. There is no snapshot versioning; a shape
// mismatch counts as corrupt and the caller starts from an empty cart.
func decodeSnapshot(data []byte) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: invalid line item", ErrCorruptSnapshot)
		}
	}
	return items, nil
}
