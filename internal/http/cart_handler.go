package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noventicred/constrular/internal/cart"
	"github.com/noventicred/constrular/internal/catalog"
	"github.com/noventicred/constrular/internal/domain"
)

type CartHandler struct {
	store   *cart.Store
	catalog catalog.Repository
	timeout time.Duration
}

func NewCartHandler(store *cart.Store, catalog catalog.Repository, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items     []domain.LineItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

type AddItemResponse struct {
	Result string       `json:"result"`
	Cart   CartResponse `json:"cart"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(ctx, sessionID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	ev := h.store.AddItem(ctx, sessionID, product.Ref())

	result := "added"
	if ev == cart.EventQuantityUpdated {
		result = "updated"
	}
	respondJSON(w, http.StatusCreated, AddItemResponse{
		Result: result,
		Cart:   h.cartResponse(ctx, sessionID),
	})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 999 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 999")
		return
	}

	// a quantity of zero or less removes the line item
	h.store.UpdateQuantity(ctx, sessionID, productID, req.Quantity)

	respondJSON(w, http.StatusOK, h.cartResponse(ctx, sessionID))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	h.store.RemoveItem(ctx, sessionID, productID)

	respondJSON(w, http.StatusOK, h.cartResponse(ctx, sessionID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return
	}

	h.store.ClearCart(ctx, sessionID)

	respondJSON(w, http.StatusOK, h.cartResponse(ctx, sessionID))
}

func (h *CartHandler) cartResponse(ctx context.Context, sessionID string) CartResponse {
	items := h.store.GetCart(ctx, sessionID)
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponse{
		Items:     items,
		Total:     h.store.Total(ctx, sessionID),
		ItemCount: h.store.ItemCount(ctx, sessionID),
	}
}
