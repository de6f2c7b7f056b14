// Package core provides money parsing and handling utilities.
//
// This file contains functions for turning raw form input into validated
// decimal amounts and for formatting amounts for display.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount bounds shared by every store.
const (
	// MaxAmountPlaces is the number of fractional digits an amount may carry.
	MaxAmountPlaces = 2
	maxAmountDigits = 18
)

// MaxAmount is the exclusive upper bound for a single expense.
var MaxAmount = decimal.New(1, maxAmountDigits)

func checkAmount(d decimal.Decimal) error {
	if d.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if d.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%w (must be below %s)", ErrInvalidAmount, MaxAmount.String())
	}
	if !d.Equal(d.Truncate(MaxAmountPlaces)) {
		return fmt.Errorf("%w (at most %d decimal places)", ErrInvalidAmount, MaxAmountPlaces)
	}
	return nil
}

// ParseAmount converts a raw decimal string into a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs,
// non-numeric input, NaN/Inf, zero, values of MaxAmount or more and values
// with more than MaxAmountPlaces fractional digits fail with ErrInvalidAmount.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,5")  -> 12.5, nil
//   ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// AmountFromFloat converts a float amount, rejecting NaN, ±Inf and
// non-positive values. The result is rounded to MaxAmountPlaces.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	d := decimal.NewFromFloat(f).Round(MaxAmountPlaces)
	if err := checkAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places for display.
// Use the decimal value itself for arithmetic.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
