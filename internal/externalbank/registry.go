// Package externalbank resolves bank codes to the deposit capability of other banks.
package externalbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBankNotRegistered is returned for a bank code with no registered service
var ErrBankNotRegistered = errors.New("bank not registered")

// Service deposits into an account held at another bank. It reports false when the bank declines.
type Service interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error)
}

// Factory builds a Service for a named implementation
type Factory func() Service

// Registry maps bank codes to services. It is read-only after loading.
type Registry struct {
	banks map[string]Service
}

// NewRegistry builds a registry from explicit services
func NewRegistry(banks map[string]Service) *Registry {
	return &Registry{banks: maps.Clone(banks)}
}

// ParseRegistry loads "CODE:implementation;..." source. Entries that do not name a
// known implementation are skipped with a warning so the remaining banks still load.
func ParseRegistry(src string, factories map[string]Factory, logger *slog.Logger) *Registry {
	banks := make(map[string]Service)

	for _, entry := range strings.Split(src, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		code, impl, ok := strings.Cut(entry, ":")
		code, impl = strings.TrimSpace(code), strings.TrimSpace(impl)
		if !ok || code == "" || impl == "" {
			logger.Warn("skipping invalid service bank entry", "entry", entry)
			continue
		}

		factory, ok := factories[strings.ToLower(impl)]
		if !ok {
			logger.Warn("skipping service bank with unknown implementation",
				"bank_code", code,
				"implementation", impl,
			)
			continue
		}

		banks[strings.ToUpper(code)] = factory()
	}

	if len(banks) == 0 {
		logger.Warn("no external banks registered, external transfers will fail")
	} else {
		logger.Info("external banks registered", "bank_codes", slices.Sorted(maps.Keys(banks)))
	}

	return &Registry{banks: banks}
}

// GetExternalBankService returns the service registered for a bank code
func (r *Registry) GetExternalBankService(bankCode string) (Service, error) {
	svc, ok := r.banks[strings.ToUpper(bankCode)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBankNotRegistered, bankCode)
	}
	return svc, nil
}
