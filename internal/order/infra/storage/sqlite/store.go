// Package sqlite implements the customer, product, and order
// repositories on a single SQLite database.
//
// The database is opened in WAL mode with a single writer connection.
// SQLite serialises all writes through that connection, which is what
// makes the stock decrement safe against concurrent order creations in
// this deployment shape: two orders for the same product cannot
// interleave their read-modify-write inside UpdateQuantities because
// each bulk update runs in its own transaction on the one writer.
package sqlite

import (
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    price       REAL NOT NULL,

    -- Available stock. The CHECK backstops the application-level
    -- sufficiency validation: an update that would drive stock negative
    -- fails the whole bulk write.
    quantity    INTEGER NOT NULL CHECK (quantity >= 0)
);

CREATE TABLE IF NOT EXISTS orders (
    id          TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL REFERENCES customers(id),
    total       REAL NOT NULL,
    status      TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL REFERENCES orders(id),
    product_id  TEXT NOT NULL REFERENCES products(id),
    quantity    INTEGER NOT NULL,

    -- Price at the time of order; deliberately denormalised so catalog
    -- price changes never rewrite history.
    price       REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
`

// Store owns the shared database handle and exposes the three
// repositories over it.
type Store struct {
	db *sql.DB

	Customers *CustomerRepository
	Products  *ProductRepository
	Orders    *OrderRepository
}

// Open opens (or creates) the database at the given path and applies
// the schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer: see the package comment.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{
		db:        db,
		Customers: &CustomerRepository{db: db},
		Products:  &ProductRepository{db: db},
		Orders:    &OrderRepository{db: db},
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
