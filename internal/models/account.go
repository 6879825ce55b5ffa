package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product an account was opened as
type AccountType string

const (
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeCurrent AccountType = "CURRENT"
)

// Prefix returns the account number prefix for the type
func (t AccountType) Prefix() string {
	switch t {
	case AccountTypeSavings:
		return "SAV"
	case AccountTypeCurrent:
		return "CUR"
	default:
		return ""
	}
}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	return t.Prefix() != ""
}

// ParseAccountType parses a case-insensitive account type name
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// PrivilegeType is the tier controlling the daily transfer ceiling
type PrivilegeType string

const (
	PrivilegeRegular PrivilegeType = "REGULAR"
	PrivilegeGold    PrivilegeType = "GOLD"
	PrivilegePremium PrivilegeType = "PREMIUM"
)

// Valid reports whether p is a known privilege tier
func (p PrivilegeType) Valid() bool {
	switch p {
	case PrivilegeRegular, PrivilegeGold, PrivilegePremium:
		return true
	default:
		return false
	}
}

// ParsePrivilegeType parses a case-insensitive privilege tier name
func ParsePrivilegeType(s string) (PrivilegeType, error) {
	p := PrivilegeType(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown privilege type %q", s)
	}
	return p, nil
}

// ErrAccountNumberMissing is returned when opening an account that was never numbered
var ErrAccountNumberMissing = errors.New("account number not assigned")

// Account represents a customer account held at this bank
type Account struct {
	OpenedAt      time.Time       `db:"opened_at"`
	Policy        *Policy         `db:"-"`
	AccountNumber string          `db:"acc_no"`
	Name          string          `db:"name"`
	PIN           string          `db:"pin"`
	Type          AccountType     `db:"acc_type"`
	Privilege     PrivilegeType   `db:"privilege"`
	Balance       decimal.Decimal `db:"balance"`
	Active        bool            `db:"active"`
}

// Open marks the account active. Opening an open account is a no-op.
func (a *Account) Open(now time.Time) error {
	if a.AccountNumber == "" {
		return ErrAccountNumberMissing
	}
	if a.Active {
		return nil
	}
	a.Active = true
	if a.OpenedAt.IsZero() {
		a.OpenedAt = now
	}
	return nil
}

// Close zeroes the balance and deactivates the account. The record itself is kept.
func (a *Account) Close() {
	a.Balance = decimal.Zero
	a.Active = false
}

// Transfer is an internal movement request between two accounts
type Transfer struct {
	From   *Account
	To     *Account
	Amount decimal.Decimal
	PIN    string
}
