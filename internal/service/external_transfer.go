package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/repository"
	"github.com/shopspring/decimal"
)

// TransferMetrics receives the final status of each settled external transfer
type TransferMetrics interface {
	ExternalTransferSettled(status string)
}

// ExternalTransferService queues transfers to other banks and settles them in the background.
// A transfer moves OPEN to CLOSED or OPEN to FAILED exactly once and is never retried.
type ExternalTransferService struct {
	accounts  AccountOperator
	transfers repository.ExternalTransferRepository
	banks     BankRegistry
	metrics   TransferMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewExternalTransferService creates a new ExternalTransferService
func NewExternalTransferService(
	accounts AccountOperator,
	transfers repository.ExternalTransferRepository,
	banks BankRegistry,
	metrics TransferMetrics,
	logger *slog.Logger,
) *ExternalTransferService {
	return &ExternalTransferService{
		accounts:  accounts,
		transfers: transfers,
		banks:     banks,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// InitiateExternalTransfer validates the source account and stores the transfer as OPEN.
// The source balance is left untouched until the other bank accepts the deposit.
func (s *ExternalTransferService) InitiateExternalTransfer(ctx context.Context, transfer *models.ExternalTransfer) error {
	if err := ValidateAmount(transfer.Amount); err != nil {
		return wrapError(ErrCodeInvalidAmount, "invalid amount", err)
	}
	if err := ValidateExternalAccount(transfer.ToExternalAccount); err != nil {
		return wrapError(ErrCodeExternalTransferFailure, "invalid external account", err)
	}

	account, err := s.accounts.GetAccount(ctx, transfer.AccountNumber)
	if err != nil {
		return err
	}

	if !account.Active {
		s.logger.Warn("external transfer from inactive account", "account", account.AccountNumber)
		return newError(ErrCodeInactiveAccount, fmt.Sprintf("account %s is inactive", account.AccountNumber))
	}
	if account.PIN != transfer.FromAccountPIN {
		s.logger.Warn("invalid PIN on external transfer", "account", account.AccountNumber)
		return newError(ErrCodeInvalidPIN, "invalid PIN")
	}

	p, err := s.accounts.ResolvePolicy(account)
	if err != nil {
		return err
	}
	if account.Balance.Sub(transfer.Amount).LessThan(p.MinBalance) {
		s.logger.Warn("insufficient balance for external transfer",
			"account", account.AccountNumber,
			"balance", account.Balance,
			"amount", transfer.Amount,
		)
		return newError(ErrCodeInsufficientBalance, "insufficient balance")
	}

	limit, err := s.accounts.GetDailyLimit(account.Privilege)
	if err != nil {
		return err
	}
	spent, err := s.DailyExternalTransferAmount(ctx, account.AccountNumber)
	if err != nil {
		return err
	}
	if spent.Add(transfer.Amount).GreaterThan(limit) {
		s.logger.Warn("daily external transfer limit exceeded",
			"account", account.AccountNumber,
			"spent_today", spent,
			"amount", transfer.Amount,
			"limit", limit,
		)
		return newError(ErrCodeDailyLimitExceeded, fmt.Sprintf("daily transfer limit of %s exceeded", limit))
	}

	transfer.Type = models.TransactionTypeExternalTransfer
	transfer.Status = models.TransactionStatusOpen
	transfer.CreatedAt = s.now()

	if err := s.transfers.Create(ctx, transfer); err != nil {
		s.logger.Error("failed to queue external transfer", "id", transfer.ID, "error", err)
		return wrapError(ErrCodeExternalTransferFailure, "failed to queue external transfer", err)
	}

	s.logger.Info("external transfer queued",
		"id", transfer.ID,
		"account", transfer.AccountNumber,
		"to", transfer.ToExternalAccount,
		"amount", transfer.Amount,
	)
	return nil
}

// ProcessOpenTransfers runs one drain cycle over every OPEN transfer.
// Per transfer failures end as FAILED and never stop the cycle; only a failure
// to list the open transfers is returned.
func (s *ExternalTransferService) ProcessOpenTransfers(ctx context.Context) error {
	open, err := s.transfers.FindOpen(ctx)
	if err != nil {
		s.logger.Error("failed to list open external transfers", "error", err)
		return wrapError(ErrCodeDatabaseOperation, "failed to list open external transfers", err)
	}
	if len(open) == 0 {
		return nil
	}

	s.logger.Info("processing external transfers", "count", len(open))

	var closed, failed int
	for _, transfer := range open {
		if ctx.Err() != nil {
			s.logger.Warn("drain cycle cancelled", "remaining", len(open)-closed-failed)
			break
		}
		// a transfer that has started settling finishes even if the cycle is cancelled
		switch s.settle(context.WithoutCancel(ctx), transfer) {
		case models.TransactionStatusClosed:
			closed++
		default:
			failed++
		}
	}

	s.logger.Info("external transfers processed", "closed", closed, "failed", failed)
	return nil
}

// settle drives one transfer to its final status and returns it
func (s *ExternalTransferService) settle(ctx context.Context, transfer *models.ExternalTransfer) (status models.TransactionStatus) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing external transfer", "id", transfer.ID, "panic", r)
			status = s.finish(ctx, transfer, models.TransactionStatusFailed)
		}
	}()

	if err := s.deliver(ctx, transfer); err != nil {
		s.logger.Warn("external transfer failed",
			"id", transfer.ID,
			"account", transfer.AccountNumber,
			"to", transfer.ToExternalAccount,
			"error", err,
		)
		return s.finish(ctx, transfer, models.TransactionStatusFailed)
	}
	return s.finish(ctx, transfer, models.TransactionStatusClosed)
}

var errDepositRejected = errors.New("deposit rejected by destination bank")

// deliver deposits at the destination bank and debits the source account once accepted
func (s *ExternalTransferService) deliver(ctx context.Context, transfer *models.ExternalTransfer) error {
	bank, err := s.banks.GetExternalBankService(transfer.BankCode())
	if err != nil {
		return err
	}

	accepted, err := bank.Deposit(ctx, transfer.ToExternalAccount, transfer.Amount)
	if err != nil {
		return err
	}
	if !accepted {
		return errDepositRejected
	}

	account, err := s.accounts.GetAccount(ctx, transfer.AccountNumber)
	if err != nil {
		return err
	}
	return s.accounts.Withdraw(ctx, account, transfer.Amount, transfer.FromAccountPIN)
}

func (s *ExternalTransferService) finish(ctx context.Context, transfer *models.ExternalTransfer, status models.TransactionStatus) models.TransactionStatus {
	transfer.Status = status
	if err := s.transfers.Update(ctx, transfer); err != nil {
		s.logger.Error("failed to update external transfer",
			"id", transfer.ID,
			"status", status,
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.ExternalTransferSettled(string(status))
	}
	return status
}

// GetExternalTransfer loads one external transfer by transaction id
func (s *ExternalTransferService) GetExternalTransfer(ctx context.Context, id int64) (*models.ExternalTransfer, error) {
	transfer, err := s.transfers.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, wrapError(ErrCodeTransactionNotFound, fmt.Sprintf("transaction %d does not exist", id), err)
	}
	if err != nil {
		s.logger.Error("failed to load external transfer", "id", id, "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to load external transfer", err)
	}
	return transfer, nil
}

// ListExternalTransfers returns every external transfer, newest first
func (s *ExternalTransferService) ListExternalTransfers(ctx context.Context) ([]*models.ExternalTransfer, error) {
	transfers, err := s.transfers.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list external transfers", "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to list external transfers", err)
	}
	return transfers, nil
}

// DailyExternalTransferAmount sums today's OPEN and CLOSED external transfers out of an account
func (s *ExternalTransferService) DailyExternalTransferAmount(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	spent, err := s.transfers.DailyTransferAmount(ctx, accountNumber, s.now())
	if err != nil {
		s.logger.Error("failed to read daily external transfer amount", "account", accountNumber, "error", err)
		return decimal.Zero, wrapError(ErrCodeExternalTransferFailure, "failed to read daily external transfer amount", err)
	}
	return spent, nil
}
