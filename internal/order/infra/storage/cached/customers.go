// Package cached decorates repositories with read-through caching.
// Customers are read-only to the order workflow, so serving them from
// cache is safe; the catalog is never cached here because its stock
// levels change on every order.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/ports"
	"github.com/shopfleet/order-api/internal/pkg/cache"
)

const customerTTL = 5 * time.Minute

// CustomerRepository wraps another CustomerRepository with a
// read-through cache.
type CustomerRepository struct {
	inner ports.CustomerRepository
	cache cache.Cache
}

func NewCustomerRepository(inner ports.CustomerRepository, c cache.Cache) *CustomerRepository {
	return &CustomerRepository{
		inner: inner,
		cache: c,
	}
}

// FindByID serves the customer from cache when possible, falling back
// to the inner repository. Absent customers are never cached, so a
// customer created after a miss is visible immediately. Cache failures
// degrade to the inner lookup rather than failing the request.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	key := r.cache.GenerateKey("customer", id)

	if raw, err := r.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "customer cache read failed", "customer_id", id, "error", err)
	} else if raw != "" {
		var c entity.Customer
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			return &c, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}

	customer, err := r.inner.FindByID(ctx, id)
	if err != nil || customer == nil {
		return customer, err
	}

	if raw, err := json.Marshal(customer); err == nil {
		if err := r.cache.Set(ctx, key, string(raw), customerTTL); err != nil {
			slog.WarnContext(ctx, "customer cache write failed", "customer_id", id, "error", err)
		}
	}

	return customer, nil
}
