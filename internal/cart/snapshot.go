package cart

import (
	"context"
	"errors"

	"github.com/noventicred/constrular/internal/domain"
)

var (
	// ErrNoSnapshot means no cart was ever saved for the session.
	ErrNoSnapshot = errors.New("no cart snapshot")

	// ErrCorruptSnapshot means a saved cart could not be decoded. The
	// store deletes the entry and starts the session from an empty cart.
	ErrCorruptSnapshot = errors.New("corrupt cart snapshot")
)

// SnapshotStore mirrors cart state to persistent storage, one snapshot
// per session. Consumers define this interface, not the Redis implementation.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error
	Delete(ctx context.Context, sessionID string) error
}
