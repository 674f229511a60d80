package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/noventicred/constrular/internal/cart"
	"github.com/noventicred/constrular/internal/checkout"
	"github.com/noventicred/constrular/internal/domain"
)

type CheckoutHandler struct {
	store    *cart.Store
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(store *cart.Store, svc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		store:    store,
		checkout: svc,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	Address *domain.Address `json:"address,omitempty"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// Checkout records the order, returns the WhatsApp deep link and clears
// the cart. Building the link and clearing are two separate steps; the
// cart is only cleared once the hand-off is fully prepared.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Address != nil {
		if req.Address.Name == "" || req.Address.Street == "" || req.Address.City == "" {
			respondError(w, http.StatusBadRequest, "invalid_address", "address requires name, street and city")
			return
		}
	}

	items := h.store.GetCart(ctx, sessionID)
	result, err := h.checkout.Checkout(ctx, sessionID, items, req.Address)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	h.store.ClearCart(ctx, sessionID)

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:     result.OrderID.String(),
		WhatsAppURL: result.WhatsAppURL,
	})
}
