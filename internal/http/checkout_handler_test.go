package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noventicred/constrular/internal/cart"
	"github.com/noventicred/constrular/internal/checkout"
	"github.com/noventicred/constrular/internal/domain"
)

type recorderMock struct {
	orders []*domain.Order
	err    error
}

func (m *recorderMock) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

type settingsMock struct{}

func (settingsMock) Get(context.Context) (domain.Settings, error) {
	return domain.Settings{StoreName: "Constrular", WhatsAppNumber: "5515997770000"}, nil
}

func newCheckoutRouter(store *cart.Store, recorder checkout.OrderRecorder) *chi.Mux {
	builder := checkout.NewBuilder("Constrular", checkout.TemplatePlain)
	svc := checkout.NewService(builder, recorder, settingsMock{}, zap.NewNop())
	handler := NewCheckoutHandler(store, svc, 5*time.Second)
	r := chi.NewRouter()
	r.Post("/checkout", handler.Checkout)
	return r
}

func seededStore(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	store.AddItem(context.Background(), "s1", domain.ProductRef{
		ProductID: "p1", Name: "Cimento CP II", Brand: "Votoran", Price: 32.5,
	})
	return store
}

func TestCheckout_Success(t *testing.T) {
	store := seededStore(t)
	recorder := &recorderMock{}
	router := newCheckoutRouter(store, recorder)

	req := withSession(httptest.NewRequest("POST", "/checkout", nil), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CheckoutResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.OrderID)
	assert.Contains(t, resp.WhatsAppURL, "https://api.whatsapp.com/send?phone=5515997770000&text=")

	require.Len(t, recorder.orders, 1)
	assert.Equal(t, "s1", recorder.orders[0].SessionID)

	assert.Empty(t, store.GetCart(context.Background(), "s1"))
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := cart.NewStore(cart.NewMemorySnapshots(), zap.NewNop())
	router := newCheckoutRouter(store, &recorderMock{})

	req := withSession(httptest.NewRequest("POST", "/checkout", nil), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckout_WithAddress(t *testing.T) {
	store := seededStore(t)
	recorder := &recorderMock{}
	router := newCheckoutRouter(store, recorder)

	body, err := json.Marshal(CheckoutRequestDTO{Address: &domain.Address{
		Name: "Ana Souza", Street: "Rua das Pedras", Number: "120", City: "Sorocaba",
	}})
	require.NoError(t, err)

	req := withSession(httptest.NewRequest("POST", "/checkout", bytes.NewReader(body)), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, recorder.orders, 1)
	assert.Equal(t, "Ana Souza", recorder.orders[0].CustomerName)
}

func TestCheckout_IncompleteAddress(t *testing.T) {
	store := seededStore(t)
	router := newCheckoutRouter(store, &recorderMock{})

	body, err := json.Marshal(CheckoutRequestDTO{Address: &domain.Address{Name: "Ana Souza"}})
	require.NoError(t, err)

	req := withSession(httptest.NewRequest("POST", "/checkout", bytes.NewReader(body)), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_RecorderFailureKeepsCart(t *testing.T) {
	store := seededStore(t)
	router := newCheckoutRouter(store, &recorderMock{err: errors.New("db down")})

	req := withSession(httptest.NewRequest("POST", "/checkout", nil), "s1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, store.GetCart(context.Background(), "s1"), 1)
}

func TestCheckout_MissingSession(t *testing.T) {
	store := seededStore(t)
	router := newCheckoutRouter(store, &recorderMock{})

	req := httptest.NewRequest("POST", "/checkout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
