package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order records a checkout hand-off so operators can follow it up over
// WhatsApp. There is no payment leg; the status moves manually.
type Order struct {
	ID            uuid.UUID
	SessionID     string
	CustomerName  string
	CustomerPhone string
	TotalAmount   float64
	Status        OrderStatus
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
