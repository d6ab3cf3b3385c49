// Package core holds the domain types of the finance tracker and the pure
// logic attached to them: amount parsing and validation, calendar arithmetic
// for recurrence windows, and write-time normalization rules.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// maxAmount caps magnitudes at 10^10 in the fixed currency unit.
var maxAmount = decimal.New(1, 10)

// ParseAmount converts a decimal string to an exact amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The value
// must be positive, have at most two decimal places, and stay within the
// 10^10 magnitude cap. No floating point is involved at any stage.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount enforces the amount contract: strictly positive, two decimal
// places at most, magnitude at or below 10^10.
func ValidateAmount(d decimal.Decimal) error {
	if d.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return ErrInvalidAmount
	}
	if d.GreaterThan(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// AmountString renders an amount in the canonical storage form, always with
// two decimal places ("1200.00").
func AmountString(d decimal.Decimal) string {
	return d.StringFixed(2)
}
