// Package repository provides data access layer implementations for the bank.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *db.DB
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	NextAccountNumber(ctx context.Context, accountType models.AccountType) (string, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	FindWithoutPolicy(ctx context.Context) ([]*models.Account, error)
	Count(ctx context.Context) (int, error)
	CountByType(ctx context.Context) (map[models.AccountType]int, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

// TransactionRepository defines the interface for the internal ledger
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindAll(ctx context.Context) ([]*models.Transaction, error)
	FindByAccount(ctx context.Context, accountNumber string) ([]*models.Transaction, error)
	DailyTransferAmount(ctx context.Context, accountNumber string, day time.Time) (decimal.Decimal, error)
	MaxTransactionID(ctx context.Context) (int64, error)
}

// ExternalTransferRepository defines the interface for transfers to other banks
type ExternalTransferRepository interface {
	Create(ctx context.Context, transfer *models.ExternalTransfer) error
	Update(ctx context.Context, transfer *models.ExternalTransfer) error
	FindByID(ctx context.Context, id int64) (*models.ExternalTransfer, error)
	FindOpen(ctx context.Context) ([]*models.ExternalTransfer, error)
	FindAll(ctx context.Context) ([]*models.ExternalTransfer, error)
	DailyTransferAmount(ctx context.Context, accountNumber string, day time.Time) (decimal.Decimal, error)
}

// IdempotencyRepository stores replayable responses keyed by client supplied keys
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// DayBounds returns the start of the calendar day containing t and the start of the next day
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
