package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/shopfleet/order-api/internal/order/core/domain"
	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/ports"
	"github.com/shopfleet/order-api/internal/txn"
	"github.com/shopfleet/order-api/internal/txn/journal"
)

var tracer = otel.Tracer("github.com/shopfleet/order-api/internal/order/core/service")

// ItemRequest is one requested (product, quantity) pair.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateOrderService orchestrates order creation: validate the customer,
// validate the requested products, validate stock, then persist the
// order and decrement stock as a compensable write. Validation is
// all-or-nothing: any failed check rejects the entire request before a
// single write happens.
type CreateOrderService struct {
	customers ports.CustomerRepository
	products  ports.ProductRepository
	orders    ports.OrderRepository
	journal   journal.Repository // nil disables write-phase journalling
}

func NewCreateOrderService(
	customers ports.CustomerRepository,
	products ports.ProductRepository,
	orders ports.OrderRepository,
	jr journal.Repository,
) *CreateOrderService {
	return &CreateOrderService{
		customers: customers,
		products:  products,
		orders:    orders,
		journal:   jr,
	}
}

// Execute runs the full workflow and returns the confirmed order, or an
// error without leaving any partial state behind.
func (s *CreateOrderService) Execute(ctx context.Context, customerID string, requested []ItemRequest) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "CreateOrder")
	defer span.End()

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("look up customer %q: %w", customerID, err)
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	ids := make([]string, len(requested))
	for i, item := range requested {
		ids[i] = item.ProductID
	}

	found, err := s.products.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	if len(found) == 0 {
		return nil, domain.ErrNoProductsFound
	}

	catalog := make(map[string]entity.Product, len(found))
	for _, p := range found {
		catalog[p.ID] = p
	}

	// Every requested id must have resolved; one miss rejects the batch.
	for _, item := range requested {
		if _, ok := catalog[item.ProductID]; !ok {
			return nil, domain.ErrProductNotFound
		}
	}

	for _, item := range requested {
		if item.Quantity > catalog[item.ProductID].Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}

	items := make([]entity.LineItem, len(requested))
	total := 0.0
	for i, item := range requested {
		li := entity.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     catalog[item.ProductID].Price,
		}
		items[i] = li
		total += li.Subtotal()
	}

	// The id is assigned here rather than by the store so the journal
	// rows written below can be joined with the order from the start.
	order := &entity.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		Items:      items,
		Total:      total,
		Status:     entity.StatusPending,
	}

	persist := newPersistOrderStep(s.orders, order)
	steps := []txn.Step{
		persist,
		newDecrementStockStep(s.products, persist, catalog),
		newConfirmOrderStep(s.orders, persist),
	}

	runner := txn.NewRunner(order.ID, steps, s.journal, marshalRequest(customerID, requested))
	if err := runner.Run(ctx); err != nil {
		return nil, fmt.Errorf("create order %s: %w", order.ID, err)
	}

	created := persist.created
	slog.InfoContext(ctx, "order created",
		"order_id", created.ID,
		"customer_id", created.CustomerID,
		"items", len(created.Items),
		"total", created.Total,
	)
	return created, nil
}

// GetOrder retrieves a stored order by id.
func (s *CreateOrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// marshalRequest serialises the workflow input for the STARTED journal
// row. Best-effort: an empty payload is acceptable.
func marshalRequest(customerID string, requested []ItemRequest) string {
	type item struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	payload := struct {
		CustomerID string `json:"customer_id"`
		Items      []item `json:"items"`
	}{CustomerID: customerID}
	for _, it := range requested {
		payload.Items = append(payload.Items, item{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}
