package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/benx421/retail-bank/internal/api"
	"github.com/benx421/retail-bank/internal/middleware"
	"github.com/benx421/retail-bank/internal/observability"
	"github.com/go-chi/httprate"
)

// RouterConfig holds what the router needs beyond the handler itself
type RouterConfig struct {
	Idempotency        middleware.IdempotencyStore
	Metrics            *observability.Metrics
	Logger             *slog.Logger
	RateLimitPerMinute int
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	mux.HandleFunc("POST /api/v1/accounts", handler.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/{accNo}", handler.GetAccount)
	mux.HandleFunc("POST /api/v1/accounts/{accNo}/deposits", handler.Deposit)
	mux.HandleFunc("POST /api/v1/accounts/{accNo}/withdrawals", handler.Withdraw)
	mux.HandleFunc("POST /api/v1/accounts/{accNo}/close", handler.CloseAccount)
	mux.HandleFunc("GET /api/v1/accounts/{accNo}/transactions", handler.ListAccountTransactions)

	mux.HandleFunc("POST /api/v1/transfers", handler.CreateTransfer)
	mux.HandleFunc("POST /api/v1/external-transfers", handler.CreateExternalTransfer)
	mux.HandleFunc("GET /api/v1/external-transfers/{transId}", handler.GetExternalTransfer)

	mux.HandleFunc("GET /api/v1/reports/summary", handler.GetSummary)
	mux.HandleFunc("GET /api/v1/reports/policies", handler.GetPolicies)
	mux.HandleFunc("GET /api/v1/reports/transfers", handler.GetTransferReport)
	mux.HandleFunc("GET /api/v1/reports/transactions", handler.GetTransactionReport)

	var finalHandler http.Handler = mux

	if cfg.Idempotency != nil {
		finalHandler = middleware.Idempotency(cfg.Idempotency, cfg.Logger)(finalHandler)
	}

	if cfg.RateLimitPerMinute > 0 {
		finalHandler = httprate.Limit(
			cfg.RateLimitPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(handler.rateLimited),
		)(finalHandler)
	}

	finalHandler = cfg.Metrics.Middleware(finalHandler)

	return finalHandler
}

func (h *Handler) rateLimited(w http.ResponseWriter, _ *http.Request) {
	h.writeError(w, http.StatusTooManyRequests, api.ErrorCodeRateLimited, "too many requests", "")
}
