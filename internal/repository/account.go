package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// accountRepository implements AccountRepository
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `acc_no, name, pin, acc_type, privilege, balance, active, opened_at, min_balance, interest_rate`

var accountSequences = map[models.AccountType]string{
	models.AccountTypeSavings: "savings_account_seq",
	models.AccountTypeCurrent: "current_account_seq",
}

// NextAccountNumber reserves the next number for the account type, e.g. SAV1001
func (r *accountRepository) NextAccountNumber(ctx context.Context, accountType models.AccountType) (string, error) {
	seq, ok := accountSequences[accountType]
	if !ok {
		return "", fmt.Errorf("no account number sequence for type %q", accountType)
	}

	var next int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval($1::regclass)`, seq).Scan(&next); err != nil {
		return "", fmt.Errorf("failed to allocate account number: %w", err)
	}

	return fmt.Sprintf("%s%d", accountType.Prefix(), next), nil
}

// Create inserts a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	minBalance, rate := policyColumns(account.Policy)
	_, err := r.db.ExecContext(ctx, query,
		account.AccountNumber,
		account.Name,
		account.PIN,
		account.Type,
		account.Privilege,
		account.Balance,
		account.Active,
		account.OpenedAt,
		minBalance,
		rate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %s: %w", account.AccountNumber, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Update writes the mutable fields of an account
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, pin = $3, privilege = $4, balance = $5, active = $6,
		    min_balance = $7, interest_rate = $8
		WHERE acc_no = $1
	`

	minBalance, rate := policyColumns(account.Policy)
	result, err := r.db.ExecContext(ctx, query,
		account.AccountNumber,
		account.Name,
		account.PIN,
		account.Privilege,
		account.Balance,
		account.Active,
		minBalance,
		rate,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s: %w", account.AccountNumber, models.ErrNotFound)
	}

	return nil
}

// FindByAccountNumber retrieves an account by its account number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE acc_no = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountNumber, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by account number: %w", err)
	}

	return account, nil
}

// FindWithoutPolicy lists accounts persisted before policies were stored with them
func (r *accountRepository) FindWithoutPolicy(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE min_balance IS NULL ORDER BY acc_no`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts without policy: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// Count returns the number of accounts
func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

// CountByType returns the number of accounts per account type
func (r *accountRepository) CountByType(ctx context.Context) (map[models.AccountType]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT acc_type, COUNT(*) FROM accounts GROUP BY acc_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AccountType]int)
	for rows.Next() {
		var (
			accountType models.AccountType
			n           int
		)
		if err := rows.Scan(&accountType, &n); err != nil {
			return nil, fmt.Errorf("failed to scan account count: %w", err)
		}
		counts[accountType] = n
	}

	return counts, rows.Err()
}

// TotalBalance returns the sum of all account balances
func (r *accountRepository) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance), 0) FROM accounts`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account    models.Account
		minBalance decimal.NullDecimal
		rate       decimal.NullDecimal
	)
	err := row.Scan(
		&account.AccountNumber,
		&account.Name,
		&account.PIN,
		&account.Type,
		&account.Privilege,
		&account.Balance,
		&account.Active,
		&account.OpenedAt,
		&minBalance,
		&rate,
	)
	if err != nil {
		return nil, err
	}

	if minBalance.Valid && rate.Valid {
		account.Policy = &models.Policy{MinBalance: minBalance.Decimal, InterestRate: rate.Decimal}
	}

	return &account, nil
}

func policyColumns(p *models.Policy) (decimal.NullDecimal, decimal.NullDecimal) {
	if p == nil {
		return decimal.NullDecimal{}, decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.MinBalance), decimal.NewNullDecimal(p.InterestRate)
}
