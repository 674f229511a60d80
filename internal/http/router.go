package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
	Settings *SettingsHandler
	Orders   *OrdersHandler
	Log      *zap.Logger
	Timeout  time.Duration
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.ClearCart)
		})

		r.Post("/checkout", deps.Checkout.Checkout)

		r.Get("/products", deps.Products.List)
		r.Get("/products/{id}", deps.Products.Get)
		r.Get("/categories", deps.Products.ListCategories)

		r.Get("/settings", deps.Settings.Get)

		r.Get("/orders", deps.Orders.List)
		r.Get("/orders/{id}", deps.Orders.Get)
	})

	return r
}
