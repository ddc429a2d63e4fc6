package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopfleet/order-api/internal/order/core/domain"
	"github.com/shopfleet/order-api/internal/order/core/domain/entity"
	"github.com/shopfleet/order-api/internal/order/core/service"
	"github.com/shopfleet/order-api/internal/txn/journal"
)

// OrderService is the slice of the order service the HTTP layer needs.
type OrderService interface {
	Execute(ctx context.Context, customerID string, requested []service.ItemRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
}

// Handler translates HTTP requests into order service calls and domain
// errors back into protocol statuses.
type Handler struct {
	orders  OrderService
	journal journal.Repository // nil-safe: the journal endpoint 404s if nil
}

func NewHandler(orders OrderService, jr journal.Repository) *Handler {
	return &Handler{
		orders:  orders,
		journal: jr,
	}
}

// CreateOrder validates the request shape and runs the creation
// workflow. Business validation (customer, products, stock) lives in
// the service; only structural checks happen here.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.CustomerID == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id and items are required")
		return
	}

	requested := make([]service.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_id and a positive quantity are required")
			return
		}
		requested = append(requested, service.ItemRequest{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	slog.InfoContext(r.Context(), "creating order",
		"request_id", middleware.GetReqID(r.Context()),
		"customer_id", req.CustomerID,
		"items", len(requested),
	)

	order, err := h.orders.Execute(r.Context(), req.CustomerID, requested)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrderByID returns a single stored order.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// GetOrderJournal returns the latest journal row for an order's write
// phase.
func (h *Handler) GetOrderJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "journal_disabled", "")
		return
	}

	orderID := chi.URLParam(r, "id")
	entry, err := h.journal.Latest(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "journal_not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mapJournalToResponse(entry))
}

// writeDomainError maps the domain error taxonomy to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, domain.ErrNoProductsFound):
		writeError(w, http.StatusNotFound, "no_products_found", err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func mapOrderToResponse(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		Total:      order.Total,
		Items:      items,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapJournalToResponse(entry *journal.Entry) JournalResponse {
	var errs []string
	_ = json.Unmarshal([]byte(entry.ErrorMessages), &errs)

	return JournalResponse{
		OrderID:       entry.TxnID,
		Status:        string(entry.Status),
		CurrentStep:   entry.CurrentStep,
		ErrorMessages: errs,
		TraceID:       entry.TraceID,
		SpanID:        entry.SpanID,
		UpdatedAt:     entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
