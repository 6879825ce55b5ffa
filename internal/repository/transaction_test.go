package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_CreateAndFind(t *testing.T) {
	database := setupTestDB(t)
	accounts := NewAccountRepository(database)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	seedAccount(t, accounts, "SAV9101", 1000)
	seedAccount(t, accounts, "SAV9102", 1000)

	now := time.Now().UTC()
	entries := []*models.Transaction{
		{ID: 1, AccountNumber: "SAV9101", Type: models.TransactionTypeDeposit, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(10), CreatedAt: now.Add(-2 * time.Minute)},
		{ID: 2, AccountNumber: "SAV9101", Type: models.TransactionTypeWithdraw, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(5), CreatedAt: now.Add(-time.Minute)},
		{ID: 3, AccountNumber: "SAV9102", Type: models.TransactionTypeDeposit, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(7), CreatedAt: now},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, e))
	}

	assert.ErrorIs(t, repo.Create(ctx, entries[0]), models.ErrDuplicate)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID, "newest first")

	mine, err := repo.FindByAccount(ctx, "SAV9101")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, models.TransactionTypeWithdraw, mine[0].Type)
}

func TestTransactionRepository_DailyTransferAmount(t *testing.T) {
	database := setupTestDB(t)
	accounts := NewAccountRepository(database)
	repo := NewTransactionRepository(database)
	ctx := context.Background()

	seedAccount(t, accounts, "SAV9103", 1000)

	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1)
	entries := []*models.Transaction{
		{ID: 10, AccountNumber: "SAV9103", Type: models.TransactionTypeTransfer, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(100), CreatedAt: today},
		{ID: 11, AccountNumber: "SAV9103", Type: models.TransactionTypeTransfer, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(50), CreatedAt: today},
		{ID: 12, AccountNumber: "SAV9103", Type: models.TransactionTypeWithdraw, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(999), CreatedAt: today},
		{ID: 13, AccountNumber: "SAV9103", Type: models.TransactionTypeTransfer, Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(400), CreatedAt: yesterday},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, e))
	}

	total, err := repo.DailyTransferAmount(ctx, "SAV9103", today)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(total), "got %s", total)

	none, err := repo.DailyTransferAmount(ctx, "SAV0000", today)
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestTransactionRepository_MaxTransactionID(t *testing.T) {
	database := setupTestDB(t)
	accounts := NewAccountRepository(database)
	repo := NewTransactionRepository(database)
	external := NewExternalTransferRepository(database)
	ctx := context.Background()

	maxID, err := repo.MaxTransactionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), maxID)

	seedAccount(t, accounts, "SAV9104", 1000)
	require.NoError(t, repo.Create(ctx, &models.Transaction{
		ID: 20, AccountNumber: "SAV9104", Type: models.TransactionTypeDeposit,
		Status: models.TransactionStatusClosed, Amount: decimal.NewFromInt(1), CreatedAt: time.Now(),
	}))
	require.NoError(t, external.Create(ctx, &models.ExternalTransfer{
		Transaction: models.Transaction{
			ID: 35, AccountNumber: "SAV9104", Type: models.TransactionTypeExternalTransfer,
			Status: models.TransactionStatusOpen, Amount: decimal.NewFromInt(1), CreatedAt: time.Now(),
		},
		ToExternalAccount: "ICIC0001",
		FromAccountPIN:    "1234",
	}))

	maxID, err = repo.MaxTransactionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(35), maxID)
}
