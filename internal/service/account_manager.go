// Package service implements the account transaction core: account operations,
// external transfer settlement and reporting.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/retail-bank/internal/lock"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/repository"
	"github.com/shopspring/decimal"
)

// AccountManager enforces account rules and writes through the account and transaction stores.
// Every balance change runs its validate, mutate and persist steps while holding the
// account lock, against the state currently in the store.
type AccountManager struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	catalog      PolicyCatalog
	limits       DailyLimits
	ids          IDGenerator
	locker       lock.Locker
	external     ExternalTransferInitiator
	logger       *slog.Logger
	now          func() time.Time
}

// NewAccountManager creates a new AccountManager
func NewAccountManager(
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	catalog PolicyCatalog,
	limits DailyLimits,
	ids IDGenerator,
	locker lock.Locker,
	logger *slog.Logger,
) *AccountManager {
	return &AccountManager{
		accounts:     accounts,
		transactions: transactions,
		catalog:      catalog,
		limits:       limits,
		ids:          ids,
		locker:       locker,
		logger:       logger,
		now:          time.Now,
	}
}

// SetExternalTransferInitiator wires the service that queues external transfers.
// It is set after construction because that service settles transfers through this manager.
func (m *AccountManager) SetExternalTransferInitiator(initiator ExternalTransferInitiator) {
	m.external = initiator
}

// CreateAccount opens and persists a new account
func (m *AccountManager) CreateAccount(
	ctx context.Context,
	name, pin string,
	initialBalance decimal.Decimal,
	privilege models.PrivilegeType,
	accountType models.AccountType,
) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, newError(ErrCodeInvalidAccountType, fmt.Sprintf("invalid account type: %s", accountType))
	}
	if !privilege.Valid() {
		return nil, newError(ErrCodeInvalidPrivilegeType, fmt.Sprintf("invalid privilege type: %s", privilege))
	}
	if err := ValidateHolderName(name); err != nil {
		return nil, wrapError(ErrCodeUnableToOpenAccount, "unable to open account", err)
	}
	if err := ValidatePIN(pin); err != nil {
		return nil, wrapError(ErrCodeInvalidPIN, "invalid PIN", err)
	}
	if initialBalance.IsNegative() {
		return nil, newError(ErrCodeInvalidAmount, "initial balance cannot be negative")
	}

	p, err := m.catalog.CreatePolicy(accountType, privilege)
	if err != nil {
		m.logger.Warn("no policy for account", "type", accountType, "privilege", privilege)
		return nil, wrapError(ErrCodeInvalidPolicyType, "invalid policy type", err)
	}

	if initialBalance.LessThan(p.MinBalance) {
		m.logger.Warn("initial balance below minimum",
			"initial_balance", initialBalance,
			"min_balance", p.MinBalance,
		)
		return nil, newError(ErrCodeMinBalanceNotMaintained,
			fmt.Sprintf("initial balance %s is less than minimum balance %s", initialBalance, p.MinBalance))
	}

	accountNumber, err := m.accounts.NextAccountNumber(ctx, accountType)
	if err != nil {
		m.logger.Error("failed to allocate account number", "type", accountType, "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to allocate account number", err)
	}

	account := &models.Account{
		AccountNumber: accountNumber,
		Name:          name,
		PIN:           pin,
		Type:          accountType,
		Privilege:     privilege,
		Balance:       initialBalance,
		OpenedAt:      m.now(),
		Policy:        &p,
	}

	if err := account.Open(account.OpenedAt); err != nil {
		m.logger.Error("unable to open account", "error", err)
		return nil, wrapError(ErrCodeUnableToOpenAccount, "unable to open account", err)
	}

	if err := m.accounts.Create(ctx, account); err != nil {
		m.logger.Error("failed to persist account", "account", accountNumber, "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to create account", err)
	}

	m.logger.Info("account created",
		"account", accountNumber,
		"type", accountType,
		"privilege", privilege,
	)

	return account, nil
}

// GetAccount loads an account by number. An account stored without a policy gets
// the catalog policy attached and persisted before it is returned.
func (m *AccountManager) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := m.load(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.Policy != nil {
		return account, nil
	}

	unlock, err := m.lock(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return m.loadLocked(ctx, accountNumber)
}

// Deposit credits an active account and records a DEPOSIT entry
func (m *AccountManager) Deposit(ctx context.Context, account *models.Account, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return wrapError(ErrCodeInvalidAmount, "invalid amount", err)
	}

	unlock, err := m.lock(ctx, account.AccountNumber)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := m.loadLocked(ctx, account.AccountNumber)
	if err != nil {
		return err
	}

	if !current.Active {
		m.logger.Warn("deposit to inactive account", "account", current.AccountNumber)
		return newError(ErrCodeInactiveAccount, fmt.Sprintf("account %s is inactive", current.AccountNumber))
	}

	current.Balance = current.Balance.Add(amount)
	if err := m.persist(ctx, current); err != nil {
		return err
	}
	*account = *current

	m.logger.Info("deposit", "account", current.AccountNumber, "amount", amount)
	return m.record(ctx, current.AccountNumber, models.TransactionTypeDeposit, amount)
}

// Withdraw debits an account after checking its state, PIN and minimum balance
func (m *AccountManager) Withdraw(ctx context.Context, account *models.Account, amount decimal.Decimal, pin string) error {
	if err := ValidateAmount(amount); err != nil {
		return wrapError(ErrCodeInvalidAmount, "invalid amount", err)
	}

	unlock, err := m.lock(ctx, account.AccountNumber)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := m.loadLocked(ctx, account.AccountNumber)
	if err != nil {
		return err
	}

	if err := m.checkDebit(current, amount, pin); err != nil {
		return err
	}

	current.Balance = current.Balance.Sub(amount)
	if err := m.persist(ctx, current); err != nil {
		return err
	}
	*account = *current

	m.logger.Info("withdrawal", "account", current.AccountNumber, "amount", amount)
	return m.record(ctx, current.AccountNumber, models.TransactionTypeWithdraw, amount)
}

// TransferFunds moves money between two accounts of this bank
func (m *AccountManager) TransferFunds(ctx context.Context, transfer *models.Transfer) error {
	if transfer.From == nil || transfer.To == nil {
		return newError(ErrCodeAccountNotFound, "transfer needs a source and a destination account")
	}
	if transfer.From.AccountNumber == transfer.To.AccountNumber {
		return newError(ErrCodeInvalidTransactionType, "cannot transfer to the same account")
	}
	if err := ValidateAmount(transfer.Amount); err != nil {
		return wrapError(ErrCodeInvalidAmount, "invalid amount", err)
	}

	unlock, err := m.lock(ctx, transfer.From.AccountNumber, transfer.To.AccountNumber)
	if err != nil {
		return err
	}
	defer unlock()

	from, err := m.loadLocked(ctx, transfer.From.AccountNumber)
	if err != nil {
		return err
	}
	to, err := m.loadLocked(ctx, transfer.To.AccountNumber)
	if err != nil {
		return err
	}

	if !from.Active || !to.Active {
		m.logger.Warn("transfer with inactive account", "from", from.AccountNumber, "to", to.AccountNumber)
		return newError(ErrCodeInactiveAccount, "one or both accounts are inactive")
	}
	if err := m.checkDebit(from, transfer.Amount, transfer.PIN); err != nil {
		return err
	}

	limit, err := m.GetDailyLimit(from.Privilege)
	if err != nil {
		return err
	}
	spent, err := m.GetDailyTransferAmount(ctx, from.AccountNumber)
	if err != nil {
		return err
	}
	if spent.Add(transfer.Amount).GreaterThan(limit) {
		m.logger.Warn("daily transfer limit exceeded",
			"account", from.AccountNumber,
			"spent_today", spent,
			"amount", transfer.Amount,
			"limit", limit,
		)
		return newError(ErrCodeDailyLimitExceeded, fmt.Sprintf("daily transfer limit of %s exceeded", limit))
	}

	from.Balance = from.Balance.Sub(transfer.Amount)
	to.Balance = to.Balance.Add(transfer.Amount)

	// two independent writes: a failure on the second leaves the debit in place
	if err := m.persist(ctx, from); err != nil {
		return err
	}
	*transfer.From = *from
	if err := m.persist(ctx, to); err != nil {
		return err
	}
	*transfer.To = *to

	m.logger.Info("transfer",
		"from", from.AccountNumber,
		"to", to.AccountNumber,
		"amount", transfer.Amount,
	)
	return m.record(ctx, from.AccountNumber, models.TransactionTypeTransfer, transfer.Amount)
}

// TransferFundsToExternal assigns a transaction id and queues the transfer as OPEN.
// The source account is debited later, once the other bank accepts the deposit.
func (m *AccountManager) TransferFundsToExternal(ctx context.Context, transfer *models.ExternalTransfer) error {
	if m.external == nil {
		return newError(ErrCodeInternalError, "external transfers are not configured")
	}

	unlock, err := m.lock(ctx, transfer.AccountNumber)
	if err != nil {
		return err
	}
	defer unlock()

	// repairs a missing policy now, the initiation path reads the account without locking
	if _, err := m.loadLocked(ctx, transfer.AccountNumber); err != nil {
		return err
	}

	id, err := m.ids.Next(ctx)
	if err != nil {
		m.logger.Error("failed to allocate transaction id", "error", err)
		return wrapError(ErrCodeDatabaseOperation, "failed to allocate transaction id", err)
	}
	transfer.ID = id
	transfer.Type = models.TransactionTypeExternalTransfer

	return m.external.InitiateExternalTransfer(ctx, transfer)
}

// CloseAccount zeroes the balance and deactivates the account. The record is kept.
func (m *AccountManager) CloseAccount(ctx context.Context, accountNumber, pin string) (*models.Account, error) {
	unlock, err := m.lock(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	account, err := m.loadLocked(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.PIN != pin {
		m.logger.Warn("invalid PIN on close", "account", accountNumber)
		return nil, newError(ErrCodeInvalidPIN, "invalid PIN")
	}
	if !account.Active {
		return nil, newError(ErrCodeInactiveAccount, fmt.Sprintf("account %s is already closed", accountNumber))
	}

	account.Close()
	if err := m.persist(ctx, account); err != nil {
		return nil, err
	}

	m.logger.Info("account closed", "account", accountNumber)
	return account, nil
}

// AccountTransactions lists the ledger entries of an account, newest first
func (m *AccountManager) AccountTransactions(ctx context.Context, accountNumber string) ([]*models.Transaction, error) {
	if _, err := m.GetAccount(ctx, accountNumber); err != nil {
		return nil, err
	}

	txns, err := m.transactions.FindByAccount(ctx, accountNumber)
	if err != nil {
		m.logger.Error("failed to list transactions", "account", accountNumber, "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to list transactions", err)
	}
	return txns, nil
}

// GetDailyLimit returns the daily transfer ceiling for a privilege tier
func (m *AccountManager) GetDailyLimit(privilege models.PrivilegeType) (decimal.Decimal, error) {
	limit, err := m.limits.GetDailyLimit(privilege)
	if err != nil {
		return decimal.Zero, wrapError(ErrCodeInvalidPrivilegeType, fmt.Sprintf("invalid privilege type: %s", privilege), err)
	}
	return limit, nil
}

// GetDailyTransferAmount sums today's internal transfers out of an account
func (m *AccountManager) GetDailyTransferAmount(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	spent, err := m.transactions.DailyTransferAmount(ctx, accountNumber, m.now())
	if err != nil {
		m.logger.Error("failed to read daily transfer amount", "account", accountNumber, "error", err)
		return decimal.Zero, wrapError(ErrCodeDatabaseOperation, "failed to read daily transfer amount", err)
	}
	return spent, nil
}

// ResolvePolicy returns the policy carried by the account, or the catalog policy for its product
func (m *AccountManager) ResolvePolicy(account *models.Account) (models.Policy, error) {
	if account.Policy != nil {
		return *account.Policy, nil
	}

	p, err := m.catalog.CreatePolicy(account.Type, account.Privilege)
	if err != nil {
		m.logger.Error("failed to resolve policy", "account", account.AccountNumber, "error", err)
		return models.Policy{}, wrapError(ErrCodeInternalError,
			fmt.Sprintf("failed to resolve policy for account %s", account.AccountNumber), err)
	}
	return p, nil
}

// AttachMissingPolicies stores the catalog policy on accounts persisted without one.
// It runs once at startup and reports how many accounts were repaired.
func (m *AccountManager) AttachMissingPolicies(ctx context.Context) (int, error) {
	accounts, err := m.accounts.FindWithoutPolicy(ctx)
	if err != nil {
		return 0, wrapError(ErrCodeDatabaseOperation, "failed to list accounts without policy", err)
	}

	var (
		repaired int
		errs     []error
	)
	for _, account := range accounts {
		if err := m.attachPolicy(ctx, account.AccountNumber); err != nil {
			m.logger.Error("policy migration failed", "account", account.AccountNumber, "error", err)
			errs = append(errs, err)
			continue
		}
		repaired++
	}

	m.logger.Info("policy migration finished", "repaired", repaired, "failed", len(errs))
	return repaired, errors.Join(errs...)
}

func (m *AccountManager) attachPolicy(ctx context.Context, accountNumber string) error {
	unlock, err := m.lock(ctx, accountNumber)
	if err != nil {
		return err
	}
	defer unlock()

	_, err = m.loadLocked(ctx, accountNumber)
	return err
}

func (m *AccountManager) load(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := m.accounts.FindByAccountNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, wrapError(ErrCodeAccountNotFound, fmt.Sprintf("account %s does not exist", accountNumber), err)
	}
	if err != nil {
		m.logger.Error("failed to load account", "account", accountNumber, "error", err)
		return nil, wrapError(ErrCodeDatabaseOperation, "failed to load account", err)
	}
	return account, nil
}

// loadLocked must be called with the account lock held
func (m *AccountManager) loadLocked(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := m.load(ctx, accountNumber)
	if err != nil || account.Policy != nil {
		return account, err
	}

	p, err := m.ResolvePolicy(account)
	if err != nil {
		return nil, err
	}
	account.Policy = &p
	if err := m.persist(ctx, account); err != nil {
		return nil, err
	}
	m.logger.Info("attached missing policy", "account", accountNumber)
	return account, nil
}

// checkDebit applies the shared debit rules in order: active, PIN, minimum balance
func (m *AccountManager) checkDebit(account *models.Account, amount decimal.Decimal, pin string) error {
	if !account.Active {
		m.logger.Warn("debit from inactive account", "account", account.AccountNumber)
		return newError(ErrCodeInactiveAccount, fmt.Sprintf("account %s is inactive", account.AccountNumber))
	}
	if account.PIN != pin {
		m.logger.Warn("invalid PIN", "account", account.AccountNumber)
		return newError(ErrCodeInvalidPIN, "invalid PIN")
	}

	p, err := m.ResolvePolicy(account)
	if err != nil {
		return err
	}
	if account.Balance.Sub(amount).LessThan(p.MinBalance) {
		m.logger.Warn("insufficient balance",
			"account", account.AccountNumber,
			"balance", account.Balance,
			"amount", amount,
			"min_balance", p.MinBalance,
		)
		return newError(ErrCodeInsufficientBalance, "insufficient balance")
	}
	return nil
}

func (m *AccountManager) lock(ctx context.Context, accountNumbers ...string) (func(), error) {
	unlock, err := m.locker.Lock(ctx, accountNumbers...)
	if err != nil {
		m.logger.Error("failed to lock accounts", "accounts", accountNumbers, "error", err)
		return nil, wrapError(ErrCodeInternalError, "account is busy", err)
	}
	return unlock, nil
}

func (m *AccountManager) persist(ctx context.Context, account *models.Account) error {
	if err := m.accounts.Update(ctx, account); err != nil {
		m.logger.Error("failed to update account", "account", account.AccountNumber, "error", err)
		return wrapError(ErrCodeDatabaseOperation, "failed to update account", err)
	}
	return nil
}

// record appends a CLOSED ledger entry. A failure here leaves the already persisted
// balance change in place.
func (m *AccountManager) record(ctx context.Context, accountNumber string, txnType models.TransactionType, amount decimal.Decimal) error {
	id, err := m.ids.Next(ctx)
	if err != nil {
		m.logger.Error("failed to allocate transaction id", "account", accountNumber, "error", err)
		return wrapError(ErrCodeDatabaseOperation, "failed to allocate transaction id", err)
	}

	txn := &models.Transaction{
		ID:            id,
		AccountNumber: accountNumber,
		Type:          txnType,
		Status:        models.TransactionStatusClosed,
		Amount:        amount,
		CreatedAt:     m.now(),
	}
	if err := m.transactions.Create(ctx, txn); err != nil {
		m.logger.Error("failed to record transaction",
			"account", accountNumber,
			"type", txnType,
			"amount", amount,
			"error", err,
		)
		return wrapError(ErrCodeDatabaseOperation, "failed to record transaction", err)
	}
	return nil
}
