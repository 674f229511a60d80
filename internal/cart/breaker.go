package cart

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/domain"
)

// BreakerSnapshots wraps a SnapshotStore with a circuit breaker so a
// dead backing store stops costing a timeout on every cart mutation.
// While the breaker is open the store runs memory-only; probes resume
// after the timeout. ErrNoSnapshot and ErrCorruptSnapshot are normal
// outcomes and do not count as failures.
type BreakerSnapshots struct {
	inner SnapshotStore
	cb    *gobreaker.CircuitBreaker[[]domain.LineItem]
}

func NewBreakerSnapshots(inner SnapshotStore, log *zap.Logger) *BreakerSnapshots {
	settings := gobreaker.Settings{
		Name:    "cart-snapshots",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoSnapshot) || errors.Is(err, ErrCorruptSnapshot)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cart snapshot breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &BreakerSnapshots{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[[]domain.LineItem](settings),
	}
}

func (b *BreakerSnapshots) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	return b.cb.Execute(func() ([]domain.LineItem, error) {
		return b.inner.Load(ctx, sessionID)
	})
}

func (b *BreakerSnapshots) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	_, err := b.cb.Execute(func() ([]domain.LineItem, error) {
		return nil, b.inner.Save(ctx, sessionID, items)
	})
	return err
}

func (b *BreakerSnapshots) Delete(ctx context.Context, sessionID string) error {
	_, err := b.cb.Execute(func() ([]domain.LineItem, error) {
		return nil, b.inner.Delete(ctx, sessionID)
	})
	return err
}
