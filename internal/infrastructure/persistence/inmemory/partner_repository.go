package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
)

// PartnerRepository serves partners and fee policies loaded at startup.
// It implements both partner.Repository and partner.FeePolicyRepository.
type PartnerRepository struct {
	mu       sync.RWMutex
	partners map[int64]partner.Partner
	policies []partner.FeePolicy
}

func NewPartnerRepository(partners []partner.Partner, policies []partner.FeePolicy) *PartnerRepository {
	r := &PartnerRepository{
		mu:       sync.RWMutex{},
		partners: make(map[int64]partner.Partner, len(partners)),
	}
	for _, p := range partners {
		r.partners[p.ID] = p
	}
	r.policies = append(r.policies, policies...)
	return r
}

func (r *PartnerRepository) FindByID(_ context.Context, id int64) (*partner.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.partners[id]
	if !ok {
		return nil, partner.ErrNotFound
	}
	return &p, nil
}

func (r *PartnerRepository) List(_ context.Context) ([]partner.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]partner.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PartnerRepository) FindEffective(_ context.Context, partnerID int64, at time.Time) (*partner.FeePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := partner.Effective(r.policies, partnerID, at)
	if !ok {
		return nil, partner.ErrNoFeePolicy
	}
	return &p, nil
}
