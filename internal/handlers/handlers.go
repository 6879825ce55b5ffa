// Package handlers implements HTTP handlers for the bank API.
package handlers

import (
	"log/slog"

	"github.com/benx421/retail-bank/internal/service"
	"github.com/go-playground/validator/v10"
)

// Handler serves every API endpoint
type Handler struct {
	accounts      service.AccountService
	transfers     service.ExternalTransferQuerier
	reports       service.Reporter
	healthChecker service.HealthChecker
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	accounts service.AccountService,
	transfers service.ExternalTransferQuerier,
	reports service.Reporter,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:      accounts,
		transfers:     transfers,
		reports:       reports,
		healthChecker: healthChecker,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        logger,
	}
}
