package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type PaymentRepository struct {
	mu       sync.RWMutex
	payments []payment.Payment
	nextID   int64
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		mu:       sync.RWMutex{},
		payments: make([]payment.Payment, 0),
	}
}

func (r *PaymentRepository) Save(_ context.Context, p *payment.Payment) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	saved := *p
	saved.ID = r.nextID
	r.payments = append(r.payments, saved)

	return &saved, nil
}

func (r *PaymentRepository) FindBy(_ context.Context, q payment.Query) (payment.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]payment.Payment, 0)
	for i := range r.payments {
		p := &r.payments[i]
		if q.Matches(p) && q.After(p) {
			matched = append(matched, *p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if len(matched) > q.Limit+1 {
		matched = matched[:q.Limit+1]
	}

	return payment.NewPage(matched, q.Limit), nil
}

func (r *PaymentRepository) Summary(_ context.Context, f payment.Filter) (payment.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s payment.Summary
	for i := range r.payments {
		if f.Matches(&r.payments[i]) {
			s.Add(&r.payments[i])
		}
	}
	return s, nil
}

// Payments returns a copy of every stored payment in insertion order.
func (r *PaymentRepository) Payments() []payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]payment.Payment, len(r.payments))
	copy(out, r.payments)
	return out
}
