package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a ledger entry
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, acc_no, type, status, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.AccountNumber,
		txn.Type,
		txn.Status,
		txn.Amount,
		txn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %d: %w", txn.ID, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindAll lists every ledger entry, newest first
func (r *transactionRepository) FindAll(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT id, acc_no, type, status, amount, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, query)
}

// FindByAccount lists the ledger entries of one account, newest first
func (r *transactionRepository) FindByAccount(ctx context.Context, accountNumber string) ([]*models.Transaction, error) {
	query := `
		SELECT id, acc_no, type, status, amount, created_at
		FROM transactions
		WHERE acc_no = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, query, accountNumber)
}

// DailyTransferAmount sums the TRANSFER debits of an account on the calendar day of day
func (r *transactionRepository) DailyTransferAmount(ctx context.Context, accountNumber string, day time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE acc_no = $1 AND type = $2 AND created_at >= $3 AND created_at < $4
	`

	start, end := DayBounds(day)
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, accountNumber, models.TransactionTypeTransfer, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum daily transfers: %w", err)
	}

	return total, nil
}

// MaxTransactionID returns the highest id used by either the ledger or external transfers
func (r *transactionRepository) MaxTransactionID(ctx context.Context) (int64, error) {
	query := `
		SELECT GREATEST(
			(SELECT COALESCE(MAX(id), 0) FROM transactions),
			(SELECT COALESCE(MAX(id), 0) FROM external_transfers)
		)
	`

	var maxID int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max transaction id: %w", err)
	}

	return maxID, nil
}

func (r *transactionRepository) query(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(&txn.ID, &txn.AccountNumber, &txn.Type, &txn.Status, &txn.Amount, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}
