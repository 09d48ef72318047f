package partner

import (
	"time"

	"github.com/shopspring/decimal"
)

type Partner struct {
	ID     int64
	Code   string
	Name   string
	Active bool
}

// FeePolicy prices payments of one partner from EffectiveFrom onwards, until
// a policy with a later EffectiveFrom takes over.
type FeePolicy struct {
	ID            int64
	PartnerID     int64
	EffectiveFrom time.Time
	Percentage    decimal.Decimal
	FixedFee      decimal.NullDecimal
}

var one = decimal.NewFromInt(1)

// Valid reports whether the rate lies in [0, 1] and the fixed fee, when
// present, is not negative.
func (p FeePolicy) Valid() bool {
	if p.Percentage.IsNegative() || p.Percentage.GreaterThan(one) {
		return false
	}
	if p.FixedFee.Valid && p.FixedFee.Decimal.IsNegative() {
		return false
	}
	return true
}

// Effective picks the policy with the latest EffectiveFrom not after at.
// Equal EffectiveFrom values resolve to the highest policy ID.
func Effective(policies []FeePolicy, partnerID int64, at time.Time) (FeePolicy, bool) {
	var (
		best  FeePolicy
		found bool
	)
	for _, p := range policies {
		if p.PartnerID != partnerID || p.EffectiveFrom.After(at) {
			continue
		}
		if !found ||
			p.EffectiveFrom.After(best.EffectiveFrom) ||
			(p.EffectiveFrom.Equal(best.EffectiveFrom) && p.ID > best.ID) {
			best, found = p, true
		}
	}
	return best, found
}
