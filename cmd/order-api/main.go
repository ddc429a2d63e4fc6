package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopfleet/order-api/internal/order/core/ports"
	"github.com/shopfleet/order-api/internal/order/core/service"
	"github.com/shopfleet/order-api/internal/order/infra/httpx"
	"github.com/shopfleet/order-api/internal/order/infra/storage/cached"
	"github.com/shopfleet/order-api/internal/order/infra/storage/sqlite"
	"github.com/shopfleet/order-api/internal/pkg/cache"
	"github.com/shopfleet/order-api/internal/pkg/telemetry"
	journalsqlite "github.com/shopfleet/order-api/internal/txn/journal/sqlite"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-api"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := sqlite.Open(getEnv("DB_PATH", "./data/orders.db"))
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	journalRepo, err := journalsqlite.Open(getEnv("JOURNAL_DB_PATH", "./data/journal.db"))
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer journalRepo.Close()

	// Customers are served through a Redis read-through cache when an
	// address is configured; otherwise straight from SQLite.
	var customers ports.CustomerRepository = store.Customers
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		customers = cached.NewCustomerRepository(store.Customers, cache.NewRedisCache(redisAddr, "order-api"))
		slog.Info("customer cache enabled", "addr", redisAddr)
	}

	orderService := service.NewCreateOrderService(customers, store.Products, store.Orders, journalRepo)
	router := httpx.NewRouter(httpx.NewHandler(orderService, journalRepo))

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		slog.Info("order API running", "addr", addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
