package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benx421/retail-bank/internal/db"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database := db.OpenTestDB(t)
	truncateTables(t, database)
	return database
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(),
		`TRUNCATE TABLE idempotency_keys, external_transfers, transactions, accounts CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func seedAccount(t *testing.T, repo AccountRepository, accNo string, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		AccountNumber: accNo,
		Name:          "Test Holder",
		PIN:           "1234",
		Type:          models.AccountTypeSavings,
		Privilege:     models.PrivilegeRegular,
		Balance:       decimal.NewFromInt(balance),
		Active:        true,
		OpenedAt:      time.Now().UTC().Truncate(time.Second),
		Policy:        &models.Policy{MinBalance: decimal.NewFromInt(100), InterestRate: decimal.NewFromInt(4)},
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}
