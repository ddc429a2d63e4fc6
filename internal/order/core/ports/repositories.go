package ports

import (
	"context"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
)

// CustomerRepository looks customers up by id.
type CustomerRepository interface {
	// FindByID returns (nil, nil) when the customer does not exist.
	FindByID(ctx context.Context, id string) (*entity.Customer, error)
}

// ProductRepository reads catalog entries and writes stock levels.
type ProductRepository interface {
	// FindAllByIDs fetches every catalog entry matching the given ids
	// in a single call. Ids with no matching entry are simply absent
	// from the result; the caller decides what that means.
	FindAllByIDs(ctx context.Context, ids []string) ([]entity.Product, error)

	// UpdateQuantities writes the new absolute quantities for all given
	// products as one all-or-nothing bulk operation.
	UpdateQuantities(ctx context.Context, updates []entity.StockUpdate) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create assigns an id and timestamps, stores the order with its
	// line items, and returns the stored order.
	Create(ctx context.Context, order *entity.Order) (*entity.Order, error)

	FindByID(ctx context.Context, id string) (*entity.Order, error)

	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
}
