package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
)

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct {
	db *sql.DB
}

// FindAllByIDs fetches every catalog entry matching the given ids in
// one query. Unknown ids are simply absent from the result.
func (r *ProductRepository) FindAllByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q := fmt.Sprintf(`SELECT id, name, price, quantity FROM products WHERE id IN (%s)`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: find products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate products: %w", err)
	}
	return products, nil
}

// UpdateQuantities writes the new absolute quantities for all given
// products inside one transaction, so the bulk write is all-or-nothing.
func (r *ProductRepository) UpdateQuantities(ctx context.Context, updates []entity.StockUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin stock update: %w", err)
	}
	defer tx.Rollback()

	const q = `UPDATE products SET quantity = ? WHERE id = ?`
	for _, u := range updates {
		res, err := tx.ExecContext(ctx, q, u.Quantity, u.ProductID)
		if err != nil {
			return fmt.Errorf("sqlite: update quantity for %q: %w", u.ProductID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected for %q: %w", u.ProductID, err)
		}
		if n == 0 {
			return fmt.Errorf("sqlite: update quantity for %q: no such product", u.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit stock update: %w", err)
	}
	return nil
}

// Add inserts a catalog entry. Used for seeding and tests.
func (r *ProductRepository) Add(ctx context.Context, p entity.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, quantity) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Quantity,
	)
	if err != nil {
		return fmt.Errorf("sqlite: add product %q: %w", p.ID, err)
	}
	return nil
}
