// Package domain holds the error taxonomy shared by the order service
// and its transport layer. Each sentinel is a user-facing application
// error; the HTTP layer maps them to protocol statuses with errors.Is.
package domain

import "errors"

var (
	// ErrCustomerNotFound means the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrNoProductsFound means none of the requested product ids
	// resolved to catalog entries.
	ErrNoProductsFound = errors.New("could not find products with the given ids")

	// ErrProductNotFound means at least one requested id did not
	// resolve, even if others did. The whole request is rejected.
	ErrProductNotFound = errors.New("could not find product")

	// ErrInsufficientStock means a requested quantity exceeds the
	// available stock for at least one product.
	ErrInsufficientStock = errors.New("quantity is unavailable")

	// ErrOrderNotFound is returned by order lookups for unknown ids.
	ErrOrderNotFound = errors.New("order not found")
)
