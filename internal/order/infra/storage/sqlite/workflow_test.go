package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfleet/order-api/internal/order/core/domain"
	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/service"
)

// End-to-end: the full creation workflow against the real store.
func TestWorkflowAgainstStore(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)
	ctx := context.Background()

	svc := service.NewCreateOrderService(store.Customers, store.Products, store.Orders, nil)

	order, err := svc.Execute(ctx, "C1", []service.ItemRequest{
		{ProductID: "P1", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, entity.LineItem{ProductID: "P1", Quantity: 3, Price: 5.00}, order.Items[0])

	// Stock went from 10 to 7.
	products, err := store.Products.FindAllByIDs(ctx, []string{"P1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 7, products[0].Quantity)

	// The stored order is confirmed and readable.
	found, err := store.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, found.Status)
	assert.Equal(t, 15.00, found.Total)
}

func TestWorkflowAgainstStore_RejectionsLeaveStoreUntouched(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)
	ctx := context.Background()

	svc := service.NewCreateOrderService(store.Customers, store.Products, store.Orders, nil)

	_, err := svc.Execute(ctx, "C1", []service.ItemRequest{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.Execute(ctx, "C1", []service.ItemRequest{
		{ProductID: "P2", Quantity: 5},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	products, err := store.Products.FindAllByIDs(ctx, []string{"P1", "P2"})
	require.NoError(t, err)
	for _, p := range products {
		switch p.ID {
		case "P1":
			assert.Equal(t, 10, p.Quantity)
		case "P2":
			assert.Equal(t, 4, p.Quantity)
		}
	}
}
