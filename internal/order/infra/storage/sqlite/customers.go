package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
)

// CustomerRepository implements ports.CustomerRepository.
type CustomerRepository struct {
	db *sql.DB
}

// FindByID returns the customer with the given id, or (nil, nil) when
// no such customer exists.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	const q = `SELECT id, name, email, created_at FROM customers WHERE id = ?`

	var c entity.Customer
	var createdAt string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Email, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find customer %q: %w", id, err)
	}

	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", createdAt, err)
	}
	return &c, nil
}

// Add inserts a customer record. Used for seeding and tests.
func (r *CustomerRepository) Add(ctx context.Context, c entity.Customer) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: add customer %q: %w", c.ID, err)
	}
	return nil
}
