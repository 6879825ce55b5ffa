package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// externalTransferRepository implements ExternalTransferRepository
type externalTransferRepository struct {
	db DBTX
}

// NewExternalTransferRepository creates a new ExternalTransferRepository
func NewExternalTransferRepository(db DBTX) ExternalTransferRepository {
	return &externalTransferRepository{db: db}
}

const externalTransferColumns = `id, from_acc_no, to_external_acc, from_acc_pin, amount, status, created_at`

// Create persists a new external transfer
func (r *externalTransferRepository) Create(ctx context.Context, transfer *models.ExternalTransfer) error {
	query := `
		INSERT INTO external_transfers (` + externalTransferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		transfer.ID,
		transfer.AccountNumber,
		transfer.ToExternalAccount,
		transfer.FromAccountPIN,
		transfer.Amount,
		transfer.Status,
		transfer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("external transfer %d: %w", transfer.ID, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create external transfer: %w", err)
	}

	return nil
}

// Update writes the status of an external transfer
func (r *externalTransferRepository) Update(ctx context.Context, transfer *models.ExternalTransfer) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE external_transfers SET status = $2 WHERE id = $1`,
		transfer.ID, transfer.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update external transfer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("external transfer %d: %w", transfer.ID, models.ErrNotFound)
	}

	return nil
}

// FindByID retrieves an external transfer by its transaction id
func (r *externalTransferRepository) FindByID(ctx context.Context, id int64) (*models.ExternalTransfer, error) {
	query := `SELECT ` + externalTransferColumns + ` FROM external_transfers WHERE id = $1`

	transfer, err := scanExternalTransfer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("external transfer %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find external transfer: %w", err)
	}

	return transfer, nil
}

// FindOpen lists transfers waiting for the other bank, oldest first
func (r *externalTransferRepository) FindOpen(ctx context.Context) ([]*models.ExternalTransfer, error) {
	query := `SELECT ` + externalTransferColumns + ` FROM external_transfers WHERE status = $1 ORDER BY id`
	return r.query(ctx, query, models.TransactionStatusOpen)
}

// FindAll lists every external transfer, newest first
func (r *externalTransferRepository) FindAll(ctx context.Context) ([]*models.ExternalTransfer, error) {
	query := `SELECT ` + externalTransferColumns + ` FROM external_transfers ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query)
}

// DailyTransferAmount sums the external transfers of an account on the calendar day of day.
// Failed transfers never moved money and are not counted.
func (r *externalTransferRepository) DailyTransferAmount(ctx context.Context, accountNumber string, day time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM external_transfers
		WHERE from_acc_no = $1 AND status <> $2 AND created_at >= $3 AND created_at < $4
	`

	start, end := DayBounds(day)
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, accountNumber, models.TransactionStatusFailed, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum daily external transfers: %w", err)
	}

	return total, nil
}

func (r *externalTransferRepository) query(ctx context.Context, query string, args ...any) ([]*models.ExternalTransfer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query external transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*models.ExternalTransfer
	for rows.Next() {
		transfer, err := scanExternalTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan external transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanExternalTransfer(row rowScanner) (*models.ExternalTransfer, error) {
	transfer := models.ExternalTransfer{
		Transaction: models.Transaction{Type: models.TransactionTypeExternalTransfer},
	}
	err := row.Scan(
		&transfer.ID,
		&transfer.AccountNumber,
		&transfer.ToExternalAccount,
		&transfer.FromAccountPIN,
		&transfer.Amount,
		&transfer.Status,
		&transfer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}
