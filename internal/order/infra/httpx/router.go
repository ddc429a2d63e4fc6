package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter wires the order endpoints behind the standard middleware
// stack. The whole router runs inside an otelhttp handler so every
// request gets a server span; the slog context handler and the journal
// pick trace ids up from there.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders/{id}", handler.GetOrderByID)
	r.Get("/orders/{id}/journal", handler.GetOrderJournal)

	return otelhttp.NewHandler(r, "order-api")
}
