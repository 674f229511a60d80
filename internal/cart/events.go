package cart

import "github.com/noventicred/constrular/internal/domain"

type EventType string

const (
	EventItemAdded       EventType = "item_added"
	EventQuantityUpdated EventType = "quantity_updated"
	EventItemRemoved     EventType = "item_removed"
	EventCartCleared     EventType = "cart_cleared"
)

// Event describes a single cart mutation. Item is the line item after the
// mutation, zero-valued for EventCartCleared.
type Event struct {
	Type      EventType
	SessionID string
	Item      domain.LineItem
}
