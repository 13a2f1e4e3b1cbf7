package confirm

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Level is the safeguard tier of a transaction, derived from its value
// in reference units. Higher tiers demand stronger confirmation input.
// This is an anti-mistake layer on top of, not a substitute for, the
// cryptographic price commitment.
type Level uint8

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelCritical:
		return "critical"
	}
	return "unknown"
}

// RateTable maps a currency code to its value in reference units.
// The table is an injected policy value; swapping it out wholesale is
// the only supported update mechanism.
type RateTable map[string]decimal.Decimal

// DefaultRateTable returns the built-in conversion table.
func DefaultRateTable() RateTable {
	return RateTable{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("1.08"),
		"GBP": decimal.RequireFromString("1.27"),
		"BTC": decimal.NewFromInt(65000),
		"ETH": decimal.NewFromInt(3000),
		"DCR": decimal.NewFromInt(20),
	}
}

// Thresholds are the reference-unit boundaries between safeguard tiers.
type Thresholds struct {
	Medium   decimal.Decimal
	High     decimal.Decimal
	Critical decimal.Decimal
}

// DefaultThresholds returns the built-in tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Medium:   decimal.NewFromInt(100),
		High:     decimal.NewFromInt(1000),
		Critical: decimal.NewFromInt(10000),
	}
}

// levelFor buckets an amount into a safeguard tier. Currencies missing
// from the table get the strictest tier.
func (t Thresholds) levelFor(rates RateTable, amount decimal.Decimal, currency string) Level {
	rate, ok := rates[currency]
	if !ok {
		return LevelCritical
	}
	reference := amount.Mul(rate)
	switch {
	case reference.GreaterThanOrEqual(t.Critical):
		return LevelCritical
	case reference.GreaterThanOrEqual(t.High):
		return LevelHigh
	case reference.GreaterThanOrEqual(t.Medium):
		return LevelMedium
	}
	return LevelLow
}

// validateConfirmationInput checks the confirmation input against the
// strength the safeguard tier demands: an acknowledgement for low and
// medium tiers, an exact retype of the amount for high and critical.
func validateConfirmationInput(level Level, amount decimal.Decimal, input string) error {
	input = strings.TrimSpace(input)
	switch level {
	case LevelLow, LevelMedium:
		if input == "" {
			return ErrInvalidConfirmation
		}
	default:
		entered, err := decimal.NewFromString(input)
		if err != nil || !entered.Equal(amount) {
			return ErrInvalidConfirmation
		}
	}
	return nil
}
