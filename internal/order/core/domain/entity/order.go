package entity

import "time"

type Order struct {
	ID         string
	CustomerID string
	Items      []LineItem
	Total      float64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineItem captures the price at the moment the order was created, so
// later catalog price changes never affect existing orders.
type LineItem struct {
	ProductID string
	Quantity  int
	Price     float64
}

func (i LineItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCancelled OrderStatus = "CANCELLED"
)
