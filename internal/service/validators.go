package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const pinLength = 4

// ValidatePIN checks that a PIN is exactly four digits
func ValidatePIN(pin string) error {
	if len(pin) != pinLength {
		return fmt.Errorf("invalid PIN: must be %d digits", pinLength)
	}

	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid PIN: must contain only digits")
		}
	}

	return nil
}

// ValidateAmount checks if amount is valid (positive, at most two decimal places)
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("invalid amount: at most two decimal places")
	}

	return nil
}

// ValidateHolderName checks that an account holder name is present
func ValidateHolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid name: must not be empty")
	}

	return nil
}

// ValidateExternalAccount checks that a destination carries at least a bank code and an account part
func ValidateExternalAccount(id string) error {
	if len(strings.TrimSpace(id)) <= 4 {
		return fmt.Errorf("invalid external account: must be a 4 character bank code followed by an account id")
	}

	return nil
}
