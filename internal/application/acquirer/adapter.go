// Package acquirer defines the capability every acquiring adapter offers to
// the payment service and the registry that picks one adapter per partner.
//
// Concrete adapters live under internal/infrastructure/acquirer. They own
// their transport, credentials and encryption; the payment service only sees
// an ApproveResult or an error.
package acquirer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type Adapter interface {
	Supports(partnerID int64) bool
	Approve(ctx context.Context, req ApproveRequest) (ApproveResult, error)
}

type ApproveRequest struct {
	PartnerID   int64
	Amount      decimal.Decimal
	CardBin     string
	CardLast4   string
	ProductName string
}

type ApproveResult struct {
	ApprovalCode string
	ApprovedAt   time.Time
	Status       payment.Status
}

// Claim describes the partners an adapter serves. With Only set the adapter
// serves exactly those partners; otherwise it serves every partner not listed
// in Except.
type Claim struct {
	Only   []int64
	Except []int64
}

func (c Claim) Covers(partnerID int64) bool {
	if len(c.Only) > 0 {
		return contains(c.Only, partnerID)
	}
	return !contains(c.Except, partnerID)
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
