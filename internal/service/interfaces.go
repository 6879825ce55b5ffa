package service

import (
	"context"
	"time"

	"github.com/benx421/retail-bank/internal/externalbank"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// PolicyCatalog resolves product policies
type PolicyCatalog interface {
	CreatePolicy(accountType models.AccountType, privilege models.PrivilegeType) (models.Policy, error)
	GetAllPolicies() map[string]models.Policy
}

// DailyLimits resolves the daily transfer ceiling of a privilege tier
type DailyLimits interface {
	GetDailyLimit(privilege models.PrivilegeType) (decimal.Decimal, error)
}

// IDGenerator allocates transaction ids
type IDGenerator interface {
	Next(ctx context.Context) (int64, error)
}

// BankRegistry resolves the deposit capability of another bank
type BankRegistry interface {
	GetExternalBankService(bankCode string) (externalbank.Service, error)
}

// AccountOperator is the slice of the account manager the external transfer
// service needs to validate and settle a transfer.
type AccountOperator interface {
	GetAccount(ctx context.Context, accountNumber string) (*models.Account, error)
	Withdraw(ctx context.Context, account *models.Account, amount decimal.Decimal, pin string) error
	GetDailyLimit(privilege models.PrivilegeType) (decimal.Decimal, error)
	ResolvePolicy(account *models.Account) (models.Policy, error)
}

// ExternalTransferInitiator queues transfers to other banks
type ExternalTransferInitiator interface {
	InitiateExternalTransfer(ctx context.Context, transfer *models.ExternalTransfer) error
}

// AccountService is the account surface exposed over HTTP
type AccountService interface {
	CreateAccount(ctx context.Context, name, pin string, initialBalance decimal.Decimal, privilege models.PrivilegeType, accountType models.AccountType) (*models.Account, error)
	GetAccount(ctx context.Context, accountNumber string) (*models.Account, error)
	Deposit(ctx context.Context, account *models.Account, amount decimal.Decimal) error
	Withdraw(ctx context.Context, account *models.Account, amount decimal.Decimal, pin string) error
	TransferFunds(ctx context.Context, transfer *models.Transfer) error
	TransferFundsToExternal(ctx context.Context, transfer *models.ExternalTransfer) error
	CloseAccount(ctx context.Context, accountNumber, pin string) (*models.Account, error)
	AccountTransactions(ctx context.Context, accountNumber string) ([]*models.Transaction, error)
}

// ExternalTransferQuerier reads back queued external transfers
type ExternalTransferQuerier interface {
	GetExternalTransfer(ctx context.Context, id int64) (*models.ExternalTransfer, error)
}

// Reporter builds the bank wide reports
type Reporter interface {
	Summary(ctx context.Context) (*Summary, error)
	Policies() map[string]models.Policy
	Transfers(ctx context.Context) (*TransferReport, error)
	TransactionsByType(ctx context.Context, txnType models.TransactionType) ([]*models.Transaction, error)
	TransactionsForDay(ctx context.Context, day time.Time) (*DayReport, error)
}

// Ensure concrete types implement interfaces
var (
	_ AccountService            = (*AccountManager)(nil)
	_ AccountOperator           = (*AccountManager)(nil)
	_ ExternalTransferInitiator = (*ExternalTransferService)(nil)
	_ ExternalTransferQuerier   = (*ExternalTransferService)(nil)
	_ Reporter                  = (*ReportService)(nil)
)
