package models

import "github.com/shopspring/decimal"

// Policy is the minimum balance and interest rate for a product
type Policy struct {
	MinBalance   decimal.Decimal `json:"min_balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// PolicyKey builds the catalog key for an account type and privilege tier
func PolicyKey(accountType AccountType, privilege PrivilegeType) string {
	return string(accountType) + "-" + string(privilege)
}
