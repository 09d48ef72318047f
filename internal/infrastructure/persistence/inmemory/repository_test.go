package inmemory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/inmemory"
)

func ptr[T any](v T) *T { return &v }

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPaymentRepository_SaveAssignsIDs(t *testing.T) {
	repo := inmemory.NewPaymentRepository()
	in := &payment.Payment{PartnerID: 1, Amount: decimal.NewFromInt(100)}

	first, err := repo.Save(context.Background(), in)
	require.NoError(t, err)
	second, err := repo.Save(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
	require.Zero(t, in.ID, "input is not mutated")
}

func TestPaymentRepository_ConcurrentSaves(t *testing.T) {
	repo := inmemory.NewPaymentRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Save(context.Background(), &payment.Payment{PartnerID: 1})
		}()
	}
	wg.Wait()

	ids := map[int64]bool{}
	for _, p := range repo.Payments() {
		ids[p.ID] = true
	}
	require.Len(t, ids, 20)
}

func TestPaymentRepository_FindByFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewPaymentRepository()

	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, &payment.Payment{
			PartnerID: 1,
			Status:    payment.StatusApproved,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, &payment.Payment{PartnerID: 2, Status: payment.StatusApproved, CreatedAt: base})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &payment.Payment{PartnerID: 1, Status: payment.StatusCanceled, CreatedAt: base})
	require.NoError(t, err)

	page, err := repo.FindBy(ctx, payment.Query{
		Filter: payment.Filter{PartnerID: ptr(int64(1)), Status: ptr(payment.StatusApproved)},
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.True(t, page.HasNext)
	require.Equal(t, []int64{5, 4}, []int64{page.Items[0].ID, page.Items[1].ID})

	page, err = repo.FindBy(ctx, payment.Query{
		Filter:          payment.Filter{PartnerID: ptr(int64(1)), Status: ptr(payment.StatusApproved)},
		CursorCreatedAt: page.NextCursorCreatedAt,
		CursorID:        page.NextCursorID,
		Limit:           5,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.False(t, page.HasNext)
	require.Equal(t, int64(1), page.Items[2].ID)
}

func TestPaymentRepository_SummaryIgnoresPaging(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewPaymentRepository()

	for _, amt := range []string{"1000", "2000", "3000"} {
		_, err := repo.Save(ctx, &payment.Payment{
			PartnerID: 1,
			Amount:    decimal.RequireFromString(amt),
			NetAmount: decimal.RequireFromString(amt).Sub(decimal.NewFromInt(30)),
			CreatedAt: base,
		})
		require.NoError(t, err)
	}

	s, err := repo.Summary(ctx, payment.Filter{PartnerID: ptr(int64(1))})
	require.NoError(t, err)
	require.Equal(t, int64(3), s.Count)
	require.True(t, s.TotalAmount.Equal(decimal.NewFromInt(6000)))
	require.True(t, s.TotalNetAmount.Equal(decimal.NewFromInt(5910)))

	s, err = repo.Summary(ctx, payment.Filter{PartnerID: ptr(int64(2))})
	require.NoError(t, err)
	require.Zero(t, s.Count)
	require.True(t, s.TotalAmount.IsZero())
}

func TestPartnerRepository(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewPartnerRepository(
		[]partner.Partner{{ID: 2, Code: "B", Active: false}, {ID: 1, Code: "A", Active: true}},
		[]partner.FeePolicy{
			{ID: 1, PartnerID: 1, EffectiveFrom: base, Percentage: decimal.RequireFromString("0.03")},
			{ID: 2, PartnerID: 1, EffectiveFrom: base.AddDate(0, 1, 0), Percentage: decimal.RequireFromString("0.02")},
		},
	)

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "A", p.Code)

	_, err = repo.FindByID(ctx, 9)
	require.ErrorIs(t, err, partner.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), all[0].ID)
	require.Len(t, all, 2)

	policy, err := repo.FindEffective(ctx, 1, base.AddDate(0, 0, 15))
	require.NoError(t, err)
	require.Equal(t, int64(1), policy.ID)

	policy, err = repo.FindEffective(ctx, 1, base.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Equal(t, int64(2), policy.ID)

	_, err = repo.FindEffective(ctx, 1, base.Add(-time.Second))
	require.ErrorIs(t, err, partner.ErrNoFeePolicy)
}
