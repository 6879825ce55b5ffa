package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/repository"
	"github.com/shopspring/decimal"
)

// Summary is the bank wide account overview
type Summary struct {
	ByType        map[models.AccountType]int `json:"by_type"`
	TotalWorth    decimal.Decimal            `json:"total_worth"`
	TotalAccounts int                        `json:"total_accounts"`
}

// TransferReport lists internal and external transfers
type TransferReport struct {
	Internal []*models.Transaction      `json:"internal"`
	External []*models.ExternalTransfer `json:"external"`
}

// DayReport lists the activity of one calendar day
type DayReport struct {
	Day      time.Time                  `json:"day"`
	Internal []*models.Transaction      `json:"internal"`
	External []*models.ExternalTransfer `json:"external"`
}

// ReportService builds read-only reports over the stores
type ReportService struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	transfers    repository.ExternalTransferRepository
	catalog      PolicyCatalog
	logger       *slog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	transfers repository.ExternalTransferRepository,
	catalog PolicyCatalog,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		accounts:     accounts,
		transactions: transactions,
		transfers:    transfers,
		catalog:      catalog,
		logger:       logger,
	}
}

// Summary counts accounts by type and sums every balance
func (r *ReportService) Summary(ctx context.Context) (*Summary, error) {
	total, err := r.accounts.Count(ctx)
	if err != nil {
		return nil, r.storeError("failed to count accounts", err)
	}
	byType, err := r.accounts.CountByType(ctx)
	if err != nil {
		return nil, r.storeError("failed to count accounts by type", err)
	}
	worth, err := r.accounts.TotalBalance(ctx)
	if err != nil {
		return nil, r.storeError("failed to sum balances", err)
	}

	return &Summary{
		TotalAccounts: total,
		ByType:        byType,
		TotalWorth:    worth,
	}, nil
}

// Policies returns every loaded policy keyed TYPE_PRIVILEGE
func (r *ReportService) Policies() map[string]models.Policy {
	return r.catalog.GetAllPolicies()
}

// Transfers lists internal TRANSFER entries and every external transfer
func (r *ReportService) Transfers(ctx context.Context) (*TransferReport, error) {
	internal, err := r.TransactionsByType(ctx, models.TransactionTypeTransfer)
	if err != nil {
		return nil, err
	}
	external, err := r.transfers.FindAll(ctx)
	if err != nil {
		return nil, r.storeError("failed to list external transfers", err)
	}
	return &TransferReport{Internal: internal, External: external}, nil
}

// TransactionsByType lists ledger entries of one type. EXTERNALTRANSFER reads the
// external transfer store, whatever their status.
func (r *ReportService) TransactionsByType(ctx context.Context, txnType models.TransactionType) ([]*models.Transaction, error) {
	if _, ok := models.ParseTransactionType(string(txnType)); !ok {
		return nil, newError(ErrCodeInvalidTransactionType, "invalid transaction type: "+string(txnType))
	}

	if txnType == models.TransactionTypeExternalTransfer {
		external, err := r.transfers.FindAll(ctx)
		if err != nil {
			return nil, r.storeError("failed to list external transfers", err)
		}
		out := make([]*models.Transaction, 0, len(external))
		for _, t := range external {
			out = append(out, &t.Transaction)
		}
		return out, nil
	}

	all, err := r.transactions.FindAll(ctx)
	if err != nil {
		return nil, r.storeError("failed to list transactions", err)
	}
	out := make([]*models.Transaction, 0, len(all))
	for _, t := range all {
		if t.Type == txnType {
			out = append(out, t)
		}
	}
	return out, nil
}

// TransactionsForDay lists internal entries and external transfers created on the day of the given time
func (r *ReportService) TransactionsForDay(ctx context.Context, day time.Time) (*DayReport, error) {
	start, end := repository.DayBounds(day)
	inDay := func(t time.Time) bool { return !t.Before(start) && t.Before(end) }

	all, err := r.transactions.FindAll(ctx)
	if err != nil {
		return nil, r.storeError("failed to list transactions", err)
	}
	external, err := r.transfers.FindAll(ctx)
	if err != nil {
		return nil, r.storeError("failed to list external transfers", err)
	}

	report := &DayReport{
		Day:      start,
		Internal: []*models.Transaction{},
		External: []*models.ExternalTransfer{},
	}
	for _, t := range all {
		if inDay(t.CreatedAt) {
			report.Internal = append(report.Internal, t)
		}
	}
	for _, t := range external {
		if inDay(t.CreatedAt) {
			report.External = append(report.External, t)
		}
	}
	return report, nil
}

func (r *ReportService) storeError(message string, err error) error {
	r.logger.Error(message, "error", err)
	return wrapError(ErrCodeDatabaseOperation, message, err)
}
