package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
)

type fakeCache struct {
	data   map[string]string
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.data[key], nil
}

func (c *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

type countingCustomers struct {
	customers map[string]entity.Customer
	calls     int
}

func (s *countingCustomers) FindByID(_ context.Context, id string) (*entity.Customer, error) {
	s.calls++
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func TestFindByID_MissThenHit(t *testing.T) {
	inner := &countingCustomers{customers: map[string]entity.Customer{
		"C1": {ID: "C1", Name: "Ada", Email: "ada@example.com"},
	}}
	repo := NewCustomerRepository(inner, newFakeCache())
	ctx := context.Background()

	c, err := repo.FindByID(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 1, inner.calls)

	// Second lookup is served from cache.
	c, err = repo.FindByID(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, 1, inner.calls)
}

func TestFindByID_AbsentCustomerIsNotCached(t *testing.T) {
	inner := &countingCustomers{customers: map[string]entity.Customer{}}
	cache := newFakeCache()
	repo := NewCustomerRepository(inner, cache)
	ctx := context.Background()

	c, err := repo.FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Empty(t, cache.data)

	// A customer created after the miss is visible immediately.
	inner.customers["nobody"] = entity.Customer{ID: "nobody", Name: "New"}
	c, err = repo.FindByID(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, inner.calls)
}

func TestFindByID_CacheFailuresFallThrough(t *testing.T) {
	inner := &countingCustomers{customers: map[string]entity.Customer{
		"C1": {ID: "C1", Name: "Ada"},
	}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	repo := NewCustomerRepository(inner, cache)

	c, err := repo.FindByID(context.Background(), "C1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 1, inner.calls)
}
