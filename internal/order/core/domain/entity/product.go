package entity

// Product is a catalog entry. Quantity is the stock currently available
// for sale; it is decremented when an order is confirmed.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
}

// StockUpdate carries the new absolute quantity for a product, not a
// delta. The caller computes (available - ordered) and the store writes
// the result as-is.
type StockUpdate struct {
	ProductID string
	Quantity  int
}
