package externalbank

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Implementation names accepted in the service bank configuration
const (
	ImplAccept    = "accept"
	ImplReject    = "reject"
	ImplSimulated = "simulated"
)

// Accepting approves every deposit
type Accepting struct{}

func (Accepting) Deposit(context.Context, string, decimal.Decimal) (bool, error) { return true, nil }

// Rejecting declines every deposit
type Rejecting struct{}

func (Rejecting) Deposit(context.Context, string, decimal.Decimal) (bool, error) { return false, nil }

// SimulatedConfig controls the behaviour of a simulated bank
type SimulatedConfig struct {
	FailureRate  float64
	MinLatencyMS int
	MaxLatencyMS int
}

// Simulated answers after a random delay and declines a configurable share of deposits
type Simulated struct {
	logger *slog.Logger
	cfg    SimulatedConfig
}

// NewSimulated creates a simulated bank
func NewSimulated(cfg SimulatedConfig, logger *slog.Logger) *Simulated {
	return &Simulated{cfg: cfg, logger: logger}
}

// Deposit waits for the simulated network latency and then accepts or declines
func (s *Simulated) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	if err := sleep(ctx, latency(s.cfg.MinLatencyMS, s.cfg.MaxLatencyMS)); err != nil {
		return false, err
	}

	if shouldFail(s.cfg.FailureRate) {
		s.logger.Debug("simulated bank declined deposit", "account", accountID, "amount", amount)
		return false, nil
	}

	return true, nil
}

// Builtins returns the factories for every built-in implementation
func Builtins(cfg SimulatedConfig, logger *slog.Logger) map[string]Factory {
	return map[string]Factory{
		ImplAccept:    func() Service { return Accepting{} },
		ImplReject:    func() Service { return Rejecting{} },
		ImplSimulated: func() Service { return NewSimulated(cfg, logger) },
	}
}

func latency(minMS, maxMS int) time.Duration {
	if minMS <= 0 && maxMS <= 0 {
		return 0
	}

	rangeMS := maxMS - minMS
	if rangeMS <= 0 {
		return time.Duration(minMS) * time.Millisecond
	}

	randomOffset, err := rand.Int(rand.Reader, big.NewInt(int64(rangeMS)))
	if err != nil {
		return time.Duration(minMS) * time.Millisecond
	}

	return time.Duration(minMS+int(randomOffset.Int64())) * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func shouldFail(failureRate float64) bool {
	if failureRate <= 0 {
		return false
	}
	if failureRate >= 1 {
		return true
	}

	const precision = 1000000
	randomNum, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		return false
	}

	threshold := int64(failureRate * precision)
	return randomNum.Int64() < threshold
}
