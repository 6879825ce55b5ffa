package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdraw         TransactionType = "WITHDRAW"
	TransactionTypeTransfer         TransactionType = "TRANSFER"
	TransactionTypeExternalTransfer TransactionType = "EXTERNALTRANSFER"
)

// ParseTransactionType reports whether s names a known transaction type
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(s); t {
	case TransactionTypeDeposit, TransactionTypeWithdraw, TransactionTypeTransfer, TransactionTypeExternalTransfer:
		return t, true
	default:
		return "", false
	}
}

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusOpen   TransactionStatus = "OPEN"
	TransactionStatusClosed TransactionStatus = "CLOSED"
	TransactionStatusFailed TransactionStatus = "FAILED"
)

// Transaction represents a ledger entry for account activity
type Transaction struct {
	CreatedAt     time.Time         `db:"created_at"`
	AccountNumber string            `db:"acc_no"`
	Type          TransactionType   `db:"type"`
	Status        TransactionStatus `db:"status"`
	Amount        decimal.Decimal   `db:"amount"`
	ID            int64             `db:"id"`
}

// ExternalTransfer is a transfer to an account held at another bank.
// Funds leave the source account only once the other bank accepts the deposit.
type ExternalTransfer struct {
	Transaction
	ToExternalAccount string `db:"to_external_acc"`
	FromAccountPIN    string `db:"from_acc_pin"`
}

const bankCodeLength = 4

// BankCode returns the destination bank code, the first four characters of the
// external account identifier.
func (t *ExternalTransfer) BankCode() string {
	if len(t.ToExternalAccount) < bankCodeLength {
		return t.ToExternalAccount
	}
	return t.ToExternalAccount[:bankCodeLength]
}

// IdempotencyKey tracks processed requests to prevent duplicate transactions
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
