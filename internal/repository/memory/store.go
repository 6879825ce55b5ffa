// Package memory implements the repository contracts in process memory.
// It backs STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/repository"
	"github.com/shopspring/decimal"
)

const firstAccountSequence = 1001

// Store holds every table behind a single lock
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]models.Account
	sequences   map[models.AccountType]int64
	txns        []models.Transaction
	external    map[int64]models.ExternalTransfer
	idempotency map[string]models.IdempotencyKey
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]models.Account),
		sequences:   make(map[models.AccountType]int64),
		external:    make(map[int64]models.ExternalTransfer),
		idempotency: make(map[string]models.IdempotencyKey),
	}
}

// Accounts returns the account repository view of the store
func (s *Store) Accounts() repository.AccountRepository { return (*accountStore)(s) }

// Transactions returns the ledger repository view of the store
func (s *Store) Transactions() repository.TransactionRepository { return (*transactionStore)(s) }

// ExternalTransfers returns the external transfer repository view of the store
func (s *Store) ExternalTransfers() repository.ExternalTransferRepository {
	return (*externalTransferStore)(s)
}

// Idempotency returns the idempotency key repository view of the store
func (s *Store) Idempotency() repository.IdempotencyRepository { return (*idempotencyStore)(s) }

// PingContext always succeeds
func (s *Store) PingContext(context.Context) error { return nil }

type accountStore Store

func (s *accountStore) NextAccountNumber(_ context.Context, accountType models.AccountType) (string, error) {
	if !accountType.Valid() {
		return "", fmt.Errorf("no account number sequence for type %q", accountType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.sequences[accountType]
	if !ok {
		next = firstAccountSequence
	}
	s.sequences[accountType] = next + 1

	return fmt.Sprintf("%s%d", accountType.Prefix(), next), nil
}

func (s *accountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountNumber]; exists {
		return fmt.Errorf("account %s: %w", account.AccountNumber, models.ErrDuplicate)
	}
	s.accounts[account.AccountNumber] = copyAccount(account)
	return nil
}

func (s *accountStore) Update(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.accounts[account.AccountNumber]
	if !exists {
		return fmt.Errorf("account %s: %w", account.AccountNumber, models.ErrNotFound)
	}

	updated := copyAccount(account)
	updated.Type = stored.Type
	updated.OpenedAt = stored.OpenedAt
	s.accounts[account.AccountNumber] = updated
	return nil
}

func (s *accountStore) FindByAccountNumber(_ context.Context, accountNumber string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.accounts[accountNumber]
	if !exists {
		return nil, fmt.Errorf("account %s: %w", accountNumber, models.ErrNotFound)
	}
	account := copyAccount(&stored)
	return &account, nil
}

func (s *accountStore) FindWithoutPolicy(context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Account
	for _, stored := range s.accounts {
		if stored.Policy == nil {
			account := copyAccount(&stored)
			out = append(out, &account)
		}
	}
	slices.SortFunc(out, func(a, b *models.Account) int { return cmp.Compare(a.AccountNumber, b.AccountNumber) })
	return out, nil
}

func (s *accountStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

func (s *accountStore) CountByType(context.Context) (map[models.AccountType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.AccountType]int)
	for _, account := range s.accounts {
		counts[account.Type]++
	}
	return counts, nil
}

func (s *accountStore) TotalBalance(context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, account := range s.accounts {
		total = total.Add(account.Balance)
	}
	return total, nil
}

type transactionStore Store

func (s *transactionStore) Create(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.txns {
		if existing.ID == txn.ID {
			return fmt.Errorf("transaction %d: %w", txn.ID, models.ErrDuplicate)
		}
	}
	s.txns = append(s.txns, *txn)
	return nil
}

func (s *transactionStore) FindAll(context.Context) ([]*models.Transaction, error) {
	return s.filter(func(models.Transaction) bool { return true }), nil
}

func (s *transactionStore) FindByAccount(_ context.Context, accountNumber string) ([]*models.Transaction, error) {
	return s.filter(func(t models.Transaction) bool { return t.AccountNumber == accountNumber }), nil
}

func (s *transactionStore) DailyTransferAmount(_ context.Context, accountNumber string, day time.Time) (decimal.Decimal, error) {
	start, end := repository.DayBounds(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, t := range s.txns {
		if t.AccountNumber == accountNumber && t.Type == models.TransactionTypeTransfer && inDay(t.CreatedAt, start, end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *transactionStore) MaxTransactionID(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxID int64
	for _, t := range s.txns {
		maxID = max(maxID, t.ID)
	}
	for id := range s.external {
		maxID = max(maxID, id)
	}
	return maxID, nil
}

// filter returns matching entries newest first
func (s *transactionStore) filter(keep func(models.Transaction) bool) []*models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Transaction
	for i := len(s.txns) - 1; i >= 0; i-- {
		if keep(s.txns[i]) {
			t := s.txns[i]
			out = append(out, &t)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Transaction) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

type externalTransferStore Store

func (s *externalTransferStore) Create(_ context.Context, transfer *models.ExternalTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.external[transfer.ID]; exists {
		return fmt.Errorf("external transfer %d: %w", transfer.ID, models.ErrDuplicate)
	}
	s.external[transfer.ID] = *transfer
	return nil
}

func (s *externalTransferStore) Update(_ context.Context, transfer *models.ExternalTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.external[transfer.ID]
	if !exists {
		return fmt.Errorf("external transfer %d: %w", transfer.ID, models.ErrNotFound)
	}
	stored.Status = transfer.Status
	s.external[transfer.ID] = stored
	return nil
}

func (s *externalTransferStore) FindByID(_ context.Context, id int64) (*models.ExternalTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.external[id]
	if !exists {
		return nil, fmt.Errorf("external transfer %d: %w", id, models.ErrNotFound)
	}
	return &stored, nil
}

func (s *externalTransferStore) FindOpen(context.Context) ([]*models.ExternalTransfer, error) {
	out := s.collect(func(t models.ExternalTransfer) bool { return t.Status == models.TransactionStatusOpen })
	slices.SortFunc(out, func(a, b *models.ExternalTransfer) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *externalTransferStore) FindAll(context.Context) ([]*models.ExternalTransfer, error) {
	out := s.collect(func(models.ExternalTransfer) bool { return true })
	slices.SortFunc(out, func(a, b *models.ExternalTransfer) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *externalTransferStore) DailyTransferAmount(_ context.Context, accountNumber string, day time.Time) (decimal.Decimal, error) {
	start, end := repository.DayBounds(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, t := range s.external {
		if t.AccountNumber == accountNumber && t.Status != models.TransactionStatusFailed && inDay(t.CreatedAt, start, end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *externalTransferStore) collect(keep func(models.ExternalTransfer) bool) []*models.ExternalTransfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ExternalTransfer
	for _, t := range s.external {
		if keep(t) {
			out = append(out, &t)
		}
	}
	return out
}

type idempotencyStore Store

func idempotencyMapKey(key, requestPath string) string {
	return requestPath + "\x00" + key
}

func (s *idempotencyStore) Get(_ context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.idempotency[idempotencyMapKey(key, requestPath)]
	if !exists {
		return nil, nil
	}
	return &stored, nil
}

func (s *idempotencyStore) Store(_ context.Context, idemKey *models.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapKey := idempotencyMapKey(idemKey.Key, idemKey.RequestPath)
	if _, exists := s.idempotency[mapKey]; exists {
		return nil
	}
	stored := *idemKey
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.idempotency[mapKey] = stored
	return nil
}

func (s *idempotencyStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, v := range s.idempotency {
		if v.CreatedAt.Before(cutoff) {
			delete(s.idempotency, k)
			n++
		}
	}
	return n, nil
}

func copyAccount(a *models.Account) models.Account {
	out := *a
	if a.Policy != nil {
		p := *a.Policy
		out.Policy = &p
	}
	return out
}

func inDay(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
