// Package policy holds the product policy catalog and the per-tier daily limits.
package policy

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidPolicyType is returned when no policy exists for an account type and tier
var ErrInvalidPolicyType = errors.New("invalid policy type")

// Catalog maps "{AccountType}-{PrivilegeType}" to a Policy. It is read-only after loading.
type Catalog struct {
	policies map[string]models.Policy
}

// NewCatalog builds a catalog from an explicit set of policies
func NewCatalog(policies map[string]models.Policy) *Catalog {
	return &Catalog{policies: maps.Clone(policies)}
}

// ParseCatalog loads a catalog from "TYPE-PRIVILEGE:minBalance,rate;..." source.
// Any malformed entry fails the whole load.
func ParseCatalog(src string) (*Catalog, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("policies configuration is missing or empty")
	}

	policies := make(map[string]models.Policy)
	for _, entry := range strings.Split(src, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, values, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid policy entry format: %q", entry)
		}

		typePart, tierPart, ok := strings.Cut(strings.TrimSpace(key), "-")
		if !ok {
			return nil, fmt.Errorf("invalid policy key: %q", key)
		}
		accountType, err := models.ParseAccountType(typePart)
		if err != nil {
			return nil, fmt.Errorf("invalid policy key %q: %w", key, err)
		}
		privilege, err := models.ParsePrivilegeType(tierPart)
		if err != nil {
			return nil, fmt.Errorf("invalid policy key %q: %w", key, err)
		}

		minStr, rateStr, ok := strings.Cut(values, ",")
		if !ok || strings.Contains(rateStr, ",") {
			return nil, fmt.Errorf("invalid policy values format: %q", values)
		}
		minBalance, err := decimal.NewFromString(strings.TrimSpace(minStr))
		if err != nil {
			return nil, fmt.Errorf("invalid minimum balance in policy %q: %w", entry, err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rateStr))
		if err != nil {
			return nil, fmt.Errorf("invalid interest rate in policy %q: %w", entry, err)
		}

		policies[models.PolicyKey(accountType, privilege)] = models.Policy{
			MinBalance:   minBalance,
			InterestRate: rate,
		}
	}

	if len(policies) == 0 {
		return nil, errors.New("policies configuration has no entries")
	}

	return &Catalog{policies: policies}, nil
}

// CreatePolicy returns the policy for an account type and privilege tier
func (c *Catalog) CreatePolicy(accountType models.AccountType, privilege models.PrivilegeType) (models.Policy, error) {
	key := models.PolicyKey(accountType, privilege)
	p, ok := c.policies[key]
	if !ok {
		return models.Policy{}, fmt.Errorf("%w: %s", ErrInvalidPolicyType, key)
	}
	return p, nil
}

// GetAllPolicies returns a copy of every policy keyed by "{AccountType}-{PrivilegeType}"
func (c *Catalog) GetAllPolicies() map[string]models.Policy {
	return maps.Clone(c.policies)
}
