package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	Brand       string
	Price       float64
	ImageURL    string
	CategoryID  string
	Featured    bool
	CreatedAt   time.Time
}

type Category struct {
	ID   string
	Name string
	Slug string
}

// Ref returns the product reference used to add this product to a cart.
func (p Product) Ref() ProductRef {
	return ProductRef{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}
}
