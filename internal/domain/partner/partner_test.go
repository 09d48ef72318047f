package partner_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestEffective(t *testing.T) {
	policies := []partner.FeePolicy{
		{ID: 1, PartnerID: 1, EffectiveFrom: day(1), Percentage: decimal.RequireFromString("0.03")},
		{ID: 2, PartnerID: 1, EffectiveFrom: day(10), Percentage: decimal.RequireFromString("0.02")},
		{ID: 3, PartnerID: 2, EffectiveFrom: day(5), Percentage: decimal.RequireFromString("0.05")},
		{ID: 4, PartnerID: 1, EffectiveFrom: day(20), Percentage: decimal.RequireFromString("0.01")},
	}

	p, ok := partner.Effective(policies, 1, day(15))
	require.True(t, ok)
	require.Equal(t, int64(2), p.ID)

	p, ok = partner.Effective(policies, 1, day(10))
	require.True(t, ok)
	require.Equal(t, int64(2), p.ID, "effectiveFrom equal to the instant applies")

	_, ok = partner.Effective(policies, 2, day(4))
	require.False(t, ok)

	_, ok = partner.Effective(policies, 9, day(30))
	require.False(t, ok)
}

func TestEffective_TieResolvesToHighestID(t *testing.T) {
	policies := []partner.FeePolicy{
		{ID: 7, PartnerID: 1, EffectiveFrom: day(1)},
		{ID: 3, PartnerID: 1, EffectiveFrom: day(1)},
	}

	p, ok := partner.Effective(policies, 1, day(2))
	require.True(t, ok)
	require.Equal(t, int64(7), p.ID)
}

func TestFeePolicy_Valid(t *testing.T) {
	valid := partner.FeePolicy{Percentage: decimal.RequireFromString("0.03")}
	require.True(t, valid.Valid())

	require.False(t, partner.FeePolicy{Percentage: decimal.RequireFromString("-0.01")}.Valid())
	require.False(t, partner.FeePolicy{Percentage: decimal.RequireFromString("1.01")}.Valid())
	require.True(t, partner.FeePolicy{Percentage: decimal.RequireFromString("1")}.Valid())

	negFixed := partner.FeePolicy{FixedFee: decimal.NewNullDecimal(decimal.NewFromInt(-1))}
	require.False(t, negFixed.Valid())
}
