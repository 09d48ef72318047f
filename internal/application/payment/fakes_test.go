package payment_test

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type fakePartners struct {
	findFn func(context.Context, int64) (*partner.Partner, error)
}

func (f *fakePartners) FindByID(ctx context.Context, id int64) (*partner.Partner, error) {
	return f.findFn(ctx, id)
}

func (f *fakePartners) List(context.Context) ([]partner.Partner, error) {
	return nil, nil
}

type fakePolicies struct {
	findFn func(context.Context, int64, time.Time) (*partner.FeePolicy, error)
}

func (f *fakePolicies) FindEffective(ctx context.Context, partnerID int64, at time.Time) (*partner.FeePolicy, error) {
	return f.findFn(ctx, partnerID, at)
}

type fakeAdapter struct {
	supportsFn func(int64) bool
	approveFn  func(context.Context, acquirer.ApproveRequest) (acquirer.ApproveResult, error)
	calls      int
}

func (f *fakeAdapter) Supports(partnerID int64) bool {
	return f.supportsFn(partnerID)
}

func (f *fakeAdapter) Approve(ctx context.Context, req acquirer.ApproveRequest) (acquirer.ApproveResult, error) {
	f.calls++
	return f.approveFn(ctx, req)
}

type fakeStore struct {
	saveFn    func(context.Context, *payment.Payment) (*payment.Payment, error)
	findByFn  func(context.Context, payment.Query) (payment.Page, error)
	summaryFn func(context.Context, payment.Filter) (payment.Summary, error)
	saves     int
}

func (f *fakeStore) Save(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	f.saves++
	return f.saveFn(ctx, p)
}

func (f *fakeStore) FindBy(ctx context.Context, q payment.Query) (payment.Page, error) {
	return f.findByFn(ctx, q)
}

func (f *fakeStore) Summary(ctx context.Context, filter payment.Filter) (payment.Summary, error) {
	return f.summaryFn(ctx, filter)
}

type fakeRecorder struct {
	recordFn func(context.Context, event.Event) error
}

func (f *fakeRecorder) Record(ctx context.Context, evt event.Event) error {
	return f.recordFn(ctx, evt)
}
