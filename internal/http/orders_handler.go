package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noventicred/constrular/internal/domain"
	"github.com/noventicred/constrular/internal/orders"
)

// OrderReader is the slice of the orders repository the handler needs.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrdersHandler(repo OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  repo,
		timeout: timeout,
	}
}

type OrderResponse struct {
	ID          string             `json:"id"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	Items       []domain.OrderItem `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// List returns the orders recorded for the requesting session, newest first.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	list, err := h.orders.ListBySession(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}

	out := make([]OrderResponse, len(list))
	for i, o := range list {
		out[i] = toOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: out})
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return
	}

	order, err := h.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID.String(),
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       o.Items,
		CreatedAt:   o.CreatedAt,
	}
}
