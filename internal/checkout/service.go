package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderRecorder persists the order that backs a hand-off. Consumers
// define this interface, not the Postgres implementation.
type OrderRecorder interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

// SettingsSource supplies the destination WhatsApp number.
type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

// Result is everything the caller needs to finish the hand-off: open the
// deep link, then clear the cart. Those two steps stay on the caller.
type Result struct {
	OrderID     uuid.UUID
	Message     string
	WhatsAppURL string
}

// Service turns a cart into a recorded order plus a WhatsApp deep link.
type Service struct {
	builder  *Builder
	orders   OrderRecorder
	settings SettingsSource
	log      *zap.Logger
}

func NewService(builder *Builder, orders OrderRecorder, settings SettingsSource, log *zap.Logger) *Service {
	return &Service{
		builder:  builder,
		orders:   orders,
		settings: settings,
		log:      log,
	}
}

// Checkout records the order and builds the hand-off link. The cart is
// not mutated here; the caller clears it after the hand-off succeeds.
func (s *Service) Checkout(ctx context.Context, sessionID string, items []domain.LineItem, addr *domain.Address) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store settings: %w", err)
	}

	order := &domain.Order{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    domain.OrderStatusReceived,
		Items:     make([]domain.OrderItem, len(items)),
	}
	var total float64
	for i, it := range items {
		order.Items[i] = domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Brand:       it.Brand,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		total += it.Subtotal()
	}
	order.TotalAmount = total
	if addr != nil {
		order.CustomerName = addr.Name
		order.CustomerPhone = addr.Phone
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	s.log.Info("order recorded for hand-off",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", sessionID),
		zap.Float64("total", total))

	msg := s.builder.Message(items, addr)
	return &Result{
		OrderID:     order.ID,
		Message:     msg,
		WhatsAppURL: Link(settings.WhatsAppNumber, msg),
	}, nil
}
