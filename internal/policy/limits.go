package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidPrivilegeType is returned for a tier with no configured daily limit
var ErrInvalidPrivilegeType = errors.New("invalid privilege type")

// DefaultDailyLimits apply when the configured limits yield no usable entry
func DefaultDailyLimits() map[models.PrivilegeType]decimal.Decimal {
	return map[models.PrivilegeType]decimal.Decimal{
		models.PrivilegeRegular: decimal.NewFromInt(100000),
		models.PrivilegeGold:    decimal.NewFromInt(200000),
		models.PrivilegePremium: decimal.NewFromInt(300000),
	}
}

// Limits maps a privilege tier to its daily transfer ceiling
type Limits struct {
	limits map[models.PrivilegeType]decimal.Decimal
}

// NewLimits builds limits from an explicit mapping
func NewLimits(limits map[models.PrivilegeType]decimal.Decimal) *Limits {
	return &Limits{limits: maps.Clone(limits)}
}

// ParseLimits loads "TIER:limit;..." source. Bad entries are skipped with a warning.
func ParseLimits(src string, logger *slog.Logger) *Limits {
	if strings.TrimSpace(src) == "" {
		logger.Warn("daily limits configuration is empty, using defaults")
		return &Limits{limits: DefaultDailyLimits()}
	}

	limits := make(map[models.PrivilegeType]decimal.Decimal)
	for _, entry := range strings.Split(src, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		tierStr, limitStr, ok := strings.Cut(entry, ":")
		if !ok {
			logger.Warn("skipping invalid daily limit entry", "entry", entry)
			continue
		}
		tier, err := models.ParsePrivilegeType(tierStr)
		if err != nil {
			logger.Warn("skipping invalid daily limit entry", "entry", entry, "error", err)
			continue
		}
		limit, err := decimal.NewFromString(strings.TrimSpace(limitStr))
		if err != nil {
			logger.Warn("skipping invalid daily limit entry", "entry", entry, "error", err)
			continue
		}
		limits[tier] = limit
	}

	if len(limits) == 0 {
		logger.Warn("no usable daily limit entries, using defaults")
		return &Limits{limits: DefaultDailyLimits()}
	}

	return &Limits{limits: limits}
}

// GetDailyLimit returns the daily transfer ceiling for a tier
func (l *Limits) GetDailyLimit(privilege models.PrivilegeType) (decimal.Decimal, error) {
	limit, ok := l.limits[privilege]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrivilegeType, privilege)
	}
	return limit, nil
}
