package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noventicred/constrular/internal/catalog"
	"github.com/noventicred/constrular/internal/domain"
)

type ProductHandler struct {
	catalog catalog.Repository
	timeout time.Duration
}

func NewProductHandler(repo catalog.Repository, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: repo,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	CategoryID  string  `json:"category_id"`
	Featured    bool    `json:"featured"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// List fetches the catalog and runs the in-memory search over it. Query
// parameters: q, category, min_price, max_price, sort.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := catalog.Query{
		Term:       r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
		Sort:       catalog.SortOrder(r.URL.Query().Get("sort")),
	}

	if raw := r.URL.Query().Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a non-negative number")
			return
		}
		query.MinPrice = &v
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a non-negative number")
			return
		}
		query.MaxPrice = &v
	}

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	matched := catalog.Search(products, query)
	out := make([]ProductResponse, len(matched))
	for i, p := range matched {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: out})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(*product))
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load categories")
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: out})
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Featured:    p.Featured,
	}
}
