package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopfleet/order-api/internal/order/core/domain"
	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
)

// OrderRepository implements ports.OrderRepository.
type OrderRepository struct {
	db *sql.DB
}

// Create stores the order and its line items in a single transaction
// and returns the stored order. An id is assigned when the caller has
// not set one.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	created := *order
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Status == "" {
		created.Status = entity.StatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin create order: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, total, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.CustomerID, created.Total, string(created.Status),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert order %q: %w", created.ID, err)
	}

	for _, item := range created.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)`,
			created.ID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: insert item %q for order %q: %w", item.ProductID, created.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit order %q: %w", created.ID, err)
	}
	return &created, nil
}

// FindByID loads an order with its line items. Returns
// domain.ErrOrderNotFound for unknown ids.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	const q = `SELECT id, customer_id, total, status, created_at, updated_at FROM orders WHERE id = ?`

	var o entity.Order
	var status, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.CustomerID, &o.Total, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find order %q: %w", id, err)
	}
	o.Status = entity.OrderStatus(status)

	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", createdAt, err)
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", updatedAt, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity, price FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find items for order %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("sqlite: scan item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate items: %w", err)
	}
	return &o, nil
}

// UpdateStatus transitions an order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update status for order %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected for order %q: %w", id, err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
