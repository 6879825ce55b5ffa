package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benx421/retail-bank/internal/externalbank"
	"github.com/benx421/retail-bank/internal/models"
	"github.com/benx421/retail-bank/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingBank struct {
	accepted bool
	err      error
	deposits []string
}

func (b *recordingBank) Deposit(_ context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	b.deposits = append(b.deposits, accountID+":"+amount.String())
	return b.accepted, b.err
}

type panickingBank struct{}

func (panickingBank) Deposit(context.Context, string, decimal.Decimal) (bool, error) {
	panic("bank offline")
}

// cancellingBank cancels the drain cycle while a deposit is in flight and then accepts it
type cancellingBank struct {
	cancel  context.CancelFunc
	ctxErrs []error
}

func (b *cancellingBank) Deposit(ctx context.Context, _ string, _ decimal.Decimal) (bool, error) {
	b.cancel()
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	return true, nil
}

func externalTransfer(from, to, amount, pin string) *models.ExternalTransfer {
	return &models.ExternalTransfer{
		Transaction:       models.Transaction{AccountNumber: from, Amount: dec(amount)},
		ToExternalAccount: to,
		FromAccountPIN:    pin,
	}
}

func TestExternalTransfer_Initiate(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, "1000", map[string]externalbank.Service{"ICIC": externalbank.Accepting{}})
	account := b.open(t, "Alice", "1000")

	transfer := externalTransfer(account.AccountNumber, "ICIC00042", "200", "1234")
	require.NoError(t, b.manager.TransferFundsToExternal(ctx, transfer))

	assert.NotZero(t, transfer.ID)
	assert.Equal(t, models.TransactionStatusOpen, transfer.Status)
	assert.Equal(t, models.TransactionTypeExternalTransfer, transfer.Type)
	assert.False(t, transfer.CreatedAt.IsZero())
	assert.True(t, b.balance(t, account.AccountNumber).Equal(dec("1000")))

	stored, err := b.external.GetExternalTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusOpen, stored.Status)
	assert.Equal(t, "ICIC00042", stored.ToExternalAccount)
}

func TestExternalTransfer_Initiate_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		balance  string
		to       string
		amount   string
		pin      string
		closed   bool
		wantCode string
	}{
		{name: "wrong pin", balance: "5000", to: "ICIC00042", amount: "100", pin: "0000", wantCode: ErrCodeInvalidPIN},
		{name: "inactive account", balance: "5000", to: "ICIC00042", amount: "100", pin: "1234", closed: true, wantCode: ErrCodeInactiveAccount},
		{name: "below minimum balance", balance: "1000", to: "ICIC00042", amount: "950", pin: "1234", wantCode: ErrCodeInsufficientBalance},
		{name: "over daily limit", balance: "5000", to: "ICIC00042", amount: "1000.01", pin: "1234", wantCode: ErrCodeDailyLimitExceeded},
		{name: "destination without account part", balance: "5000", to: "ICIC", amount: "100", pin: "1234", wantCode: ErrCodeExternalTransferFailure},
		{name: "zero amount", balance: "5000", to: "ICIC00042", amount: "0", pin: "1234", wantCode: ErrCodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, "1000", nil)
			account := b.open(t, "Alice", tt.balance)
			if tt.closed {
				_, err := b.manager.CloseAccount(ctx, account.AccountNumber, "1234")
				require.NoError(t, err)
			}

			err := b.manager.TransferFundsToExternal(ctx, externalTransfer(account.AccountNumber, tt.to, tt.amount, tt.pin))

			assertCode(t, err, tt.wantCode)
			all, err := b.external.ListExternalTransfers(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestExternalTransfer_DailyLimitCountsQueuedTransfers(t *testing.T) {
	ctx := context.Background()
	rejecting := &recordingBank{accepted: false}
	b := newBank(t, "1000", map[string]externalbank.Service{"HDFC": rejecting})
	account := b.open(t, "Alice", "5000")

	require.NoError(t, b.manager.TransferFundsToExternal(ctx, externalTransfer(account.AccountNumber, "HDFC0001", "700", "1234")))

	err := b.manager.TransferFundsToExternal(ctx, externalTransfer(account.AccountNumber, "HDFC0001", "400", "1234"))
	assertCode(t, err, ErrCodeDailyLimitExceeded)

	// failed transfers release their share of the limit
	require.NoError(t, b.external.ProcessOpenTransfers(ctx))
	require.NoError(t, b.manager.TransferFundsToExternal(ctx, externalTransfer(account.AccountNumber, "HDFC0001", "400", "1234")))
}

func TestExternalTransfer_ProcessOpenTransfers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		bank        externalbank.Service
		to          string
		wantStatus  models.TransactionStatus
		wantBalance string
	}{
		{name: "accepted", bank: &recordingBank{accepted: true}, to: "ICIC00042", wantStatus: models.TransactionStatusClosed, wantBalance: "800"},
		{name: "declined", bank: &recordingBank{accepted: false}, to: "ICIC00042", wantStatus: models.TransactionStatusFailed, wantBalance: "1000"},
		{name: "bank error", bank: &recordingBank{err: errors.New("connection refused")}, to: "ICIC00042", wantStatus: models.TransactionStatusFailed, wantBalance: "1000"},
		{name: "bank panics", bank: panickingBank{}, to: "ICIC00042", wantStatus: models.TransactionStatusFailed, wantBalance: "1000"},
		{name: "unregistered bank", bank: externalbank.Accepting{}, to: "AXIS00042", wantStatus: models.TransactionStatusFailed, wantBalance: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, "100000", map[string]externalbank.Service{"ICIC": tt.bank})
			account := b.open(t, "Alice", "1000")
			transfer := externalTransfer(account.AccountNumber, tt.to, "200", "1234")
			require.NoError(t, b.manager.TransferFundsToExternal(ctx, transfer))

			require.NoError(t, b.external.ProcessOpenTransfers(ctx))

			stored, err := b.external.GetExternalTransfer(ctx, transfer.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
			assert.True(t, b.balance(t, account.AccountNumber).Equal(dec(tt.wantBalance)))
			assert.Equal(t, []string{string(tt.wantStatus)}, b.metrics.statuses)

			// settled transfers are never picked up again
			require.NoError(t, b.external.ProcessOpenTransfers(ctx))
			assert.True(t, b.balance(t, account.AccountNumber).Equal(dec(tt.wantBalance)))
			assert.Len(t, b.metrics.statuses, 1)
		})
	}
}

func TestExternalTransfer_ProcessOpenTransfers_Independent(t *testing.T) {
	ctx := context.Background()
	accepting := &recordingBank{accepted: true}
	b := newBank(t, "100000", map[string]externalbank.Service{
		"ICIC": accepting,
		"HDFC": panickingBank{},
	})
	account := b.open(t, "Alice", "1000")

	first := externalTransfer(account.AccountNumber, "HDFC0001", "100", "1234")
	second := externalTransfer(account.AccountNumber, "ICIC0002", "150", "1234")
	require.NoError(t, b.manager.TransferFundsToExternal(ctx, first))
	require.NoError(t, b.manager.TransferFundsToExternal(ctx, second))

	require.NoError(t, b.external.ProcessOpenTransfers(ctx))

	got, err := b.external.GetExternalTransfer(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, got.Status)

	got, err = b.external.GetExternalTransfer(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusClosed, got.Status)

	assert.Equal(t, []string{"ICIC0002:150"}, accepting.deposits)
	assert.True(t, b.balance(t, account.AccountNumber).Equal(dec("850")))

	txns, err := b.manager.AccountTransactions(ctx, account.AccountNumber)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypeWithdraw, txns[0].Type)
}

func TestExternalTransfer_CancelledCycleFinishesInFlightTransfer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bank := &cancellingBank{cancel: cancel}
	b := newBank(t, "100000", map[string]externalbank.Service{"ICIC": bank})
	alice := b.open(t, "Alice", "1000")
	bob := b.open(t, "Bob", "1000")

	first := externalTransfer(alice.AccountNumber, "ICIC0001", "200", "1234")
	second := externalTransfer(bob.AccountNumber, "ICIC0002", "300", "1234")
	require.NoError(t, b.manager.TransferFundsToExternal(context.Background(), first))
	require.NoError(t, b.manager.TransferFundsToExternal(context.Background(), second))

	require.NoError(t, b.external.ProcessOpenTransfers(ctx))

	// the deposit already accepted is settled on a live context
	assert.Equal(t, []error{nil}, bank.ctxErrs)

	got, err := b.external.GetExternalTransfer(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusClosed, got.Status)
	assert.True(t, b.balance(t, alice.AccountNumber).Equal(dec("800")))

	// cancellation stops the cycle before the next transfer
	got, err = b.external.GetExternalTransfer(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusOpen, got.Status)
	assert.True(t, b.balance(t, bob.AccountNumber).Equal(dec("1000")))
}

func TestExternalTransfer_WithdrawFailsAtSettlement(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, "100000", map[string]externalbank.Service{"ICIC": externalbank.Accepting{}})
	account := b.open(t, "Alice", "1000")

	transfer := externalTransfer(account.AccountNumber, "ICIC00042", "800", "1234")
	require.NoError(t, b.manager.TransferFundsToExternal(ctx, transfer))
	require.NoError(t, b.manager.Withdraw(ctx, account, dec("500"), "1234"))

	require.NoError(t, b.external.ProcessOpenTransfers(ctx))

	stored, err := b.external.GetExternalTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, stored.Status)
	assert.True(t, b.balance(t, account.AccountNumber).Equal(dec("500")))
}

func TestExternalTransfer_ProcessOpenTransfers_ListFails(t *testing.T) {
	ctx := context.Background()
	transfers := mocks.NewMockExternalTransferRepository(t)
	svc := NewExternalTransferService(nil, transfers, externalbank.NewRegistry(nil), nil, discardLogger())

	transfers.On("FindOpen", ctx).Return(nil, errors.New("relation does not exist"))

	err := svc.ProcessOpenTransfers(ctx)

	assertCode(t, err, ErrCodeDatabaseOperation)
}

func TestExternalTransfer_ProcessOpenTransfers_UpdateFails(t *testing.T) {
	ctx := context.Background()
	transfers := mocks.NewMockExternalTransferRepository(t)
	svc := NewExternalTransferService(nil, transfers, externalbank.NewRegistry(nil), nil, discardLogger())

	open := externalTransfer("SAV1001", "AXIS0001", "10", "1234")
	open.ID = 7
	open.Status = models.TransactionStatusOpen

	transfers.On("FindOpen", ctx).Return([]*models.ExternalTransfer{open}, nil)
	transfers.On("Update", ctx, mock.MatchedBy(func(t *models.ExternalTransfer) bool {
		return t.ID == 7 && t.Status == models.TransactionStatusFailed
	})).Return(errors.New("deadlock detected"))

	assert.NoError(t, svc.ProcessOpenTransfers(ctx))
}

func TestExternalTransfer_Initiate_StoreFailure(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, "1000", nil)
	account := b.open(t, "Alice", "1000")
	transfers := mocks.NewMockExternalTransferRepository(t)
	svc := NewExternalTransferService(b.manager, transfers, externalbank.NewRegistry(nil), nil, discardLogger())
	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	transfers.On("DailyTransferAmount", ctx, account.AccountNumber, fixed).Return(decimal.Zero, nil)
	transfers.On("Create", ctx, mock.AnythingOfType("*models.ExternalTransfer")).Return(errors.New("disk full"))

	err := svc.InitiateExternalTransfer(ctx, externalTransfer(account.AccountNumber, "ICIC00042", "100", "1234"))

	assertCode(t, err, ErrCodeExternalTransferFailure)
}

func TestExternalTransfer_GetExternalTransfer_NotFound(t *testing.T) {
	b := newBank(t, "1000", nil)

	transfer, err := b.external.GetExternalTransfer(context.Background(), 404)

	assert.Nil(t, transfer)
	assertCode(t, err, ErrCodeTransactionNotFound)
}
