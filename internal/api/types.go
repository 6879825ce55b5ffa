package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Health status values
const (
	Healthy   = "healthy"
	Unhealthy = "unhealthy"
)

// Error codes that do not come from the service layer
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeValidation     = "validation_error"
	ErrorCodeUnexpected     = "unexpected_error"
	ErrorCodeRateLimited    = "rate_limited"
)

// Error is the body of every failed request
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Health is the body of GET /health
type Health struct {
	Status string `json:"status"`
}

// Policy is the minimum balance and interest rate of a product
type Policy struct {
	MinBalance   decimal.Decimal `json:"min_balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// Account is the public view of an account. The PIN is never returned.
type Account struct {
	OpenedAt      time.Time       `json:"opened_at"`
	Policy        *Policy         `json:"policy,omitempty"`
	AccountNumber string          `json:"account_number"`
	Name          string          `json:"name"`
	AccountType   string          `json:"account_type"`
	Privilege     string          `json:"privilege"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
}

// Transaction is one ledger entry
type Transaction struct {
	CreatedAt     time.Time       `json:"created_at"`
	AccountNumber string          `json:"account_number"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	ID            int64           `json:"id"`
}

// ExternalTransfer is a transfer to another bank
type ExternalTransfer struct {
	Transaction
	ToExternalAccount string `json:"to_external_account"`
}

// CreateAccountRequest is the body of POST /api/v1/accounts
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	PIN            string          `json:"pin" validate:"required"`
	AccountType    string          `json:"account_type" validate:"required"`
	Privilege      string          `json:"privilege" validate:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// DepositRequest is the body of POST /api/v1/accounts/{accNo}/deposits
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// WithdrawRequest is the body of POST /api/v1/accounts/{accNo}/withdrawals
type WithdrawRequest struct {
	PIN    string          `json:"pin" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CloseAccountRequest is the body of POST /api/v1/accounts/{accNo}/close
type CloseAccountRequest struct {
	PIN string `json:"pin" validate:"required"`
}

// TransferRequest is the body of POST /api/v1/transfers
type TransferRequest struct {
	FromAccount string          `json:"from_account" validate:"required"`
	ToAccount   string          `json:"to_account" validate:"required"`
	PIN         string          `json:"pin" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransferResponse carries both accounts after an internal transfer
type TransferResponse struct {
	From   Account         `json:"from"`
	To     Account         `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// ExternalTransferRequest is the body of POST /api/v1/external-transfers
type ExternalTransferRequest struct {
	FromAccount       string          `json:"from_account" validate:"required"`
	ToExternalAccount string          `json:"to_external_account" validate:"required"`
	PIN               string          `json:"pin" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
}

// Summary is the account overview report
type Summary struct {
	ByType        map[string]int  `json:"by_type"`
	TotalWorth    decimal.Decimal `json:"total_worth"`
	TotalAccounts int             `json:"total_accounts"`
}

// TransferReport lists internal and external transfers
type TransferReport struct {
	Internal []Transaction      `json:"internal"`
	External []ExternalTransfer `json:"external"`
}

// DayReport lists the activity of one day
type DayReport struct {
	Day      string             `json:"day"`
	Internal []Transaction      `json:"internal"`
	External []ExternalTransfer `json:"external"`
}
