package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfleet/order-api/internal/order/core/domain"
	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/service"
	"github.com/shopfleet/order-api/internal/txn/journal"
)

type stubService struct {
	executeErr error
	order      *entity.Order
	gotItems   []service.ItemRequest
}

func (s *stubService) Execute(_ context.Context, customerID string, requested []service.ItemRequest) (*entity.Order, error) {
	s.gotItems = requested
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	return s.order, nil
}

func (s *stubService) GetOrder(_ context.Context, id string) (*entity.Order, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, domain.ErrOrderNotFound
}

type memJournal struct {
	entry *journal.Entry
}

func (m *memJournal) Save(_ context.Context, entry *journal.Entry) error {
	m.entry = entry
	return nil
}

func (m *memJournal) Latest(_ context.Context, txnID string) (*journal.Entry, error) {
	if m.entry == nil || m.entry.TxnID != txnID {
		return nil, errors.New("no entries")
	}
	return m.entry, nil
}

func testOrder() *entity.Order {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Order{
		ID:         "ord-1",
		CustomerID: "C1",
		Items:      []entity.LineItem{{ProductID: "P1", Quantity: 3, Price: 5.00}},
		Total:      15.00,
		Status:     entity.StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func doRequest(t *testing.T, svc OrderService, jr journal.Repository, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(svc, jr))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder_Created(t *testing.T) {
	svc := &stubService{order: testOrder()}

	rec := doRequest(t, svc, nil, http.MethodPost, "/orders",
		`{"customer_id":"C1","items":[{"product_id":"P1","quantity":3}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var res OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ord-1", res.ID)
	assert.Equal(t, "CONFIRMED", res.Status)
	assert.Equal(t, 15.00, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, OrderItemResponse{ProductID: "P1", Quantity: 3, Price: 5.00}, res.Items[0])

	require.Len(t, svc.gotItems, 1)
	assert.Equal(t, service.ItemRequest{ProductID: "P1", Quantity: 3}, svc.gotItems[0])
}

func TestCreateOrder_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{`},
		{name: "missing customer", body: `{"items":[{"product_id":"P1","quantity":1}]}`},
		{name: "no items", body: `{"customer_id":"C1","items":[]}`},
		{name: "zero quantity", body: `{"customer_id":"C1","items":[{"product_id":"P1","quantity":0}]}`},
		{name: "negative quantity", body: `{"customer_id":"C1","items":[{"product_id":"P1","quantity":-2}]}`},
		{name: "empty product id", body: `{"customer_id":"C1","items":[{"product_id":"","quantity":1}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{order: testOrder()}
			rec := doRequest(t, svc, nil, http.MethodPost, "/orders", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.gotItems, "service must not be called")
		})
	}
}

func TestCreateOrder_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: domain.ErrCustomerNotFound, status: http.StatusNotFound, code: "customer_not_found"},
		{err: domain.ErrNoProductsFound, status: http.StatusNotFound, code: "no_products_found"},
		{err: domain.ErrProductNotFound, status: http.StatusNotFound, code: "product_not_found"},
		{err: domain.ErrInsufficientStock, status: http.StatusConflict, code: "insufficient_stock"},
		{err: errors.New("disk full"), status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			svc := &stubService{executeErr: tc.err}
			rec := doRequest(t, svc, nil, http.MethodPost, "/orders",
				`{"customer_id":"C1","items":[{"product_id":"P1","quantity":1}]}`)

			assert.Equal(t, tc.status, rec.Code)

			var res ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tc.code, res.Error)
		})
	}
}

func TestGetOrderByID(t *testing.T) {
	svc := &stubService{order: testOrder()}

	rec := doRequest(t, svc, nil, http.MethodGet, "/orders/ord-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ord-1", res.ID)

	rec = doRequest(t, svc, nil, http.MethodGet, "/orders/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderJournal(t *testing.T) {
	jr := &memJournal{entry: &journal.Entry{
		TxnID:         "ord-1",
		Status:        journal.StatusCompleted,
		ErrorMessages: "[]",
		UpdatedAt:     time.Now().UTC(),
	}}
	svc := &stubService{order: testOrder()}

	rec := doRequest(t, svc, jr, http.MethodGet, "/orders/ord-1/journal", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res JournalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, "COMPLETED", res.Status)
	assert.Empty(t, res.ErrorMessages)

	rec = doRequest(t, svc, jr, http.MethodGet, "/orders/other/journal", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// No journal configured at all.
	rec = doRequest(t, svc, nil, http.MethodGet, "/orders/ord-1/journal", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
