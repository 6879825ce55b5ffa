package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/benx421/retail-bank/internal/externalbank"
	"github.com/benx421/retail-bank/internal/idgen"
	"github.com/benx421/retail-bank/internal/lock"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/policy"
	"github.com/benx421/retail-bank/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *policy.Catalog {
	return policy.NewCatalog(map[string]models.Policy{
		models.PolicyKey(models.AccountTypeSavings, models.PrivilegeRegular): {MinBalance: dec("100"), InterestRate: dec("0.04")},
		models.PolicyKey(models.AccountTypeSavings, models.PrivilegeGold):    {MinBalance: dec("500"), InterestRate: dec("0.05")},
		models.PolicyKey(models.AccountTypeCurrent, models.PrivilegeRegular): {MinBalance: dec("1000"), InterestRate: dec("0")},
	})
}

func testLimits(regular string) *policy.Limits {
	return policy.NewLimits(map[models.PrivilegeType]decimal.Decimal{
		models.PrivilegeRegular: dec(regular),
		models.PrivilegeGold:    dec("200000"),
	})
}

type recordedStatuses struct {
	statuses []string
}

func (r *recordedStatuses) ExternalTransferSettled(status string) {
	r.statuses = append(r.statuses, status)
}

type bank struct {
	store    *memory.Store
	manager  *AccountManager
	external *ExternalTransferService
	reports  *ReportService
	metrics  *recordedStatuses
}

func newBank(t *testing.T, dailyLimit string, banks map[string]externalbank.Service) *bank {
	t.Helper()

	store := memory.NewStore()
	logger := discardLogger()
	catalog := testCatalog()

	manager := NewAccountManager(
		store.Accounts(),
		store.Transactions(),
		catalog,
		testLimits(dailyLimit),
		idgen.New(store.Transactions()),
		lock.NewLocal(),
		logger,
	)
	metrics := &recordedStatuses{}
	external := NewExternalTransferService(manager, store.ExternalTransfers(), externalbank.NewRegistry(banks), metrics, logger)
	manager.SetExternalTransferInitiator(external)

	return &bank{
		store:    store,
		manager:  manager,
		external: external,
		reports:  NewReportService(store.Accounts(), store.Transactions(), store.ExternalTransfers(), catalog, logger),
		metrics:  metrics,
	}
}

func (b *bank) open(t *testing.T, name, balance string) *models.Account {
	t.Helper()

	account, err := b.manager.CreateAccount(context.Background(), name, "1234", dec(balance), models.PrivilegeRegular, models.AccountTypeSavings)
	require.NoError(t, err)
	return account
}

func (b *bank) balance(t *testing.T, accountNumber string) decimal.Decimal {
	t.Helper()

	account, err := b.manager.GetAccount(context.Background(), accountNumber)
	require.NoError(t, err)
	return account.Balance
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, code, svcErr.Code)
}
