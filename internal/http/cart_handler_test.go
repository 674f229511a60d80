package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/cart"
	"github.com/noventicred/constrular/internal/catalog"
	"github.com/noventicred/constrular/internal/domain"
)

type catalogMock struct {
	products map[string]domain.Product
	err      error
}

func (c *catalogMock) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (c *catalogMock) ListProducts(context.Context) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []domain.Product
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *catalogMock) ListByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range c.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *catalogMock) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "c1", Name: "Materiais Básicos", Slug: "materiais-basicos"}}, nil
}

func (c *catalogMock) Close() error { return nil }

func testCatalog() *catalogMock {
	return &catalogMock{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Cimento CP II", Brand: "Votoran", Price: 32.5, ImageURL: "/img/cimento.jpg", CategoryID: "c1"},
		"p2": {ID: "p2", Name: "Tinta Acrílica", Brand: "Suvinil", Price: 89.9, ImageURL: "/img/tinta.jpg", CategoryID: "c2"},
	}}
}

func newCartRouter(store *cart.Store, cat catalog.Repository) *chi.Mux {
	handler := NewCartHandler(store, cat, 5*time.Second)
	r := chi.NewRouter()
	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{product_id}", handler.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", handler.RemoveItem)
	r.Delete("/cart", handler.ClearCart)
	return r
}

func withSession(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), sessionIDKey, sessionID))
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := withSession(httptest.NewRequest(method, path, &buf), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddItem_Created(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	rec := doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AddItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "added", resp.Result)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, "Cimento CP II", resp.Cart.Items[0].Name)
	assert.Equal(t, 1, resp.Cart.ItemCount)
}

func TestAddItem_SecondAddReportsUpdated(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})
	rec := doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AddItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "updated", resp.Result)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, 2, resp.Cart.Items[0].Quantity)
	assert.InDelta(t, 65.0, resp.Cart.Total, 1e-9)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	rec := doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "ghost"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	rec := doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	req := withSession(httptest.NewRequest("POST", "/cart/items", bytes.NewBufferString("{not json")), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCart_Empty(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	rec := doRequest(t, router, "GET", "/cart", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Total)
	assert.Zero(t, resp.ItemCount)
}

func TestUpdateQuantity_SetsValue(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})
	rec := doRequest(t, router, "PUT", "/cart/items/p1", UpdateQuantityRequestDTO{Quantity: 4})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Quantity)
	assert.InDelta(t, 130.0, resp.Total, 1e-9)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})
	rec := doRequest(t, router, "PUT", "/cart/items/p1", UpdateQuantityRequestDTO{Quantity: 0})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestRemoveItem_UnknownIDStillOK(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})
	rec := doRequest(t, router, "DELETE", "/cart/items/ghost", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Items, 1)
}

func TestClearCart(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p1"})
	doRequest(t, router, "POST", "/cart/items", AddItemRequestDTO{ProductID: "p2"})
	rec := doRequest(t, router, "DELETE", "/cart", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestCart_MissingSession(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCartRouter(store, testCatalog())

	req := httptest.NewRequest("GET", "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
