package service

import (
	"context"
	"fmt"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/ports"
)

// --- persistOrderStep ---

type persistOrderStep struct {
	orders  ports.OrderRepository
	order   *entity.Order
	created *entity.Order
}

func newPersistOrderStep(orders ports.OrderRepository, order *entity.Order) *persistOrderStep {
	return &persistOrderStep{
		orders: orders,
		order:  order,
	}
}

func (s *persistOrderStep) Name() string { return "Persist_Order_Step" }

func (s *persistOrderStep) Execute(ctx context.Context) error {
	created, err := s.orders.Create(ctx, s.order)
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	s.created = created
	return nil
}

func (s *persistOrderStep) Compensate(ctx context.Context) error {
	return s.orders.UpdateStatus(ctx, s.order.ID, entity.StatusCancelled)
}

// --- decrementStockStep ---

type decrementStockStep struct {
	products ports.ProductRepository
	persist  *persistOrderStep
	catalog  map[string]entity.Product // quantities as fetched at validation time
}

func newDecrementStockStep(products ports.ProductRepository, persist *persistOrderStep, catalog map[string]entity.Product) *decrementStockStep {
	return &decrementStockStep{
		products: products,
		persist:  persist,
		catalog:  catalog,
	}
}

func (s *decrementStockStep) Name() string { return "Decrement_Stock_Step" }

// Execute submits the new absolute quantity for every line item echoed
// back by the persisted order, in a single bulk call.
func (s *decrementStockStep) Execute(ctx context.Context) error {
	items := s.persist.created.Items
	updates := make([]entity.StockUpdate, len(items))
	for i, item := range items {
		updates[i] = entity.StockUpdate{
			ProductID: item.ProductID,
			Quantity:  s.catalog[item.ProductID].Quantity - item.Quantity,
		}
	}

	if err := s.products.UpdateQuantities(ctx, updates); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

// Compensate restores the quantities fetched at validation time.
func (s *decrementStockStep) Compensate(ctx context.Context) error {
	items := s.persist.created.Items
	restores := make([]entity.StockUpdate, len(items))
	for i, item := range items {
		restores[i] = entity.StockUpdate{
			ProductID: item.ProductID,
			Quantity:  s.catalog[item.ProductID].Quantity,
		}
	}
	return s.products.UpdateQuantities(ctx, restores)
}

// --- confirmOrderStep ---

type confirmOrderStep struct {
	orders  ports.OrderRepository
	persist *persistOrderStep
}

func newConfirmOrderStep(orders ports.OrderRepository, persist *persistOrderStep) *confirmOrderStep {
	return &confirmOrderStep{
		orders:  orders,
		persist: persist,
	}
}

func (s *confirmOrderStep) Name() string { return "Confirm_Order_Step" }

func (s *confirmOrderStep) Execute(ctx context.Context) error {
	if err := s.orders.UpdateStatus(ctx, s.persist.created.ID, entity.StatusConfirmed); err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	s.persist.created.Status = entity.StatusConfirmed
	return nil
}

func (s *confirmOrderStep) Compensate(ctx context.Context) error {
	// Last step; an earlier failure never reaches here.
	return nil
}
