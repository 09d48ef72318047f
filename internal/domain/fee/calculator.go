// Package fee computes acquiring fees and net settlement amounts.
//
// Fees are rounded to whole currency units with HALF_UP semantics: a value
// exactly halfway between two units rounds away from zero. The fixed part of
// a policy is added after rounding.
package fee

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidArgument = errors.New("invalid fee argument")

type Result struct {
	Fee decimal.Decimal
	Net decimal.Decimal
}

// Calculate returns the fee and the net amount for amount charged at rate
// plus an optional fixed fee. Net is not clamped and may be negative.
func Calculate(amount, rate decimal.Decimal, fixed decimal.NullDecimal) (Result, error) {
	if amount.IsNegative() {
		return Result{}, fmt.Errorf("%w: amount %s must not be negative", ErrInvalidArgument, amount)
	}
	if rate.IsNegative() {
		return Result{}, fmt.Errorf("%w: rate %s must not be negative", ErrInvalidArgument, rate)
	}

	fixedFee := decimal.Zero
	if fixed.Valid {
		fixedFee = fixed.Decimal
	}

	// decimal.Round rounds half away from zero.
	fee := amount.Mul(rate).Round(0).Add(fixedFee)

	return Result{
		Fee: fee,
		Net: amount.Sub(fee),
	}, nil
}
