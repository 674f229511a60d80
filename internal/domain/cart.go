package domain

// ProductRef is the slice of a catalog product that a cart line item is
// built from. It carries no quantity; adding the same product twice
// increments the existing line item instead.
type ProductRef struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
}

// LineItem is one product entry in a cart. Quantity is always >= 1; an
// item that would drop to zero is removed from the cart instead.
type LineItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image"`
}

// Subtotal is the line total for this item.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}
