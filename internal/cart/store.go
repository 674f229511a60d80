package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/domain"
)

// Store holds one cart per browsing session. Mutations go through the
// four operations below; each one mirrors the full cart to the
// SnapshotStore. Persistence failures are logged and the cart keeps
// working in memory for the rest of the session.
type Store struct {
	mu        sync.Mutex
	carts     map[string][]domain.LineItem
	hydrated  map[string]bool
	snapshots SnapshotStore
	subs      []func(Event)
	log       *zap.Logger
}

func NewStore(snapshots SnapshotStore, log *zap.Logger) *Store {
	return &Store{
		carts:     make(map[string][]domain.LineItem),
		hydrated:  make(map[string]bool),
		snapshots: snapshots,
		log:       log,
	}
}

// Subscribe registers a callback for cart mutations. Callbacks run
// synchronously under the mutating operation and must not call back into
// the store.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// GetCart returns a copy of the session's line items in insertion order.
func (s *Store) GetCart(ctx context.Context, sessionID string) []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)
	return copyItems(s.carts[sessionID])
}

// AddItem appends ref as a new line item with quantity 1, or increments
// the quantity of the existing line item with the same product id. The
// returned event type tells the caller which of the two happened.
func (s *Store) AddItem(ctx context.Context, sessionID string, ref domain.ProductRef) EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ProductID == ref.ProductID {
			items[i].Quantity++
			s.persist(ctx, sessionID)
			s.notify(Event{Type: EventQuantityUpdated, SessionID: sessionID, Item: items[i]})
			return EventQuantityUpdated
		}
	}

	item := domain.LineItem{
		ProductID: ref.ProductID,
		Name:      ref.Name,
		Brand:     ref.Brand,
		Price:     ref.Price,
		Quantity:  1,
		ImageURL:  ref.ImageURL,
	}
	s.carts[sessionID] = append(items, item)
	s.persist(ctx, sessionID)
	s.notify(Event{Type: EventItemAdded, SessionID: sessionID, Item: item})
	return EventItemAdded
}

// RemoveItem deletes the line item with the given product id. Removing an
// id that is not in the cart is a silent no-op.
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)
	s.removeLocked(ctx, sessionID, productID)
}

// UpdateQuantity sets the quantity of the line item with the given
// product id. A quantity of zero or less removes the item. Unknown ids
// are a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)

	if quantity <= 0 {
		s.removeLocked(ctx, sessionID, productID)
		return
	}

	items := s.carts[sessionID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			s.persist(ctx, sessionID)
			s.notify(Event{Type: EventQuantityUpdated, SessionID: sessionID, Item: items[i]})
			return
		}
	}
}

// ClearCart empties the session's cart and deletes its snapshot.
func (s *Store) ClearCart(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	s.hydrated[sessionID] = true
	if err := s.snapshots.Delete(ctx, sessionID); err != nil {
		s.log.Warn("cart snapshot delete failed, continuing in memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	s.notify(Event{Type: EventCartCleared, SessionID: sessionID})
}

// Total is the sum of price times quantity over all line items,
// recomputed on every call.
func (s *Store) Total(ctx context.Context, sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)

	var total float64
	for _, it := range s.carts[sessionID] {
		total += it.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all line items.
func (s *Store) ItemCount(ctx context.Context, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx, sessionID)

	var count int
	for _, it := range s.carts[sessionID] {
		count += it.Quantity
	}
	return count
}

func (s *Store) removeLocked(ctx context.Context, sessionID, productID string) {
	items := s.carts[sessionID]
	for i, it := range items {
		if it.ProductID == productID {
			s.carts[sessionID] = append(items[:i], items[i+1:]...)
			s.persist(ctx, sessionID)
			s.notify(Event{Type: EventItemRemoved, SessionID: sessionID, Item: it})
			return
		}
	}
}

// hydrate loads the saved snapshot the first time a session is touched.
// A corrupt snapshot is deleted and the session starts empty; a read
// error also starts empty, with persistence retried on the next mutation.
func (s *Store) hydrate(ctx context.Context, sessionID string) {
	if s.hydrated[sessionID] {
		return
	}
	s.hydrated[sessionID] = true

	items, err := s.snapshots.Load(ctx, sessionID)
	switch {
	case err == nil:
		s.carts[sessionID] = items
	case errors.Is(err, ErrNoSnapshot):
	case errors.Is(err, ErrCorruptSnapshot):
		s.log.Warn("discarding corrupt cart snapshot",
			zap.String("session_id", sessionID), zap.Error(err))
		if delErr := s.snapshots.Delete(ctx, sessionID); delErr != nil {
			s.log.Warn("corrupt cart snapshot delete failed",
				zap.String("session_id", sessionID), zap.Error(delErr))
		}
	default:
		s.log.Warn("cart snapshot load failed, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *Store) persist(ctx context.Context, sessionID string) {
	if err := s.snapshots.Save(ctx, sessionID, s.carts[sessionID]); err != nil {
		s.log.Warn("cart snapshot save failed, continuing in memory",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *Store) notify(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
