package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/fee"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

type Command struct {
	PartnerID   int64
	Amount      decimal.Decimal
	CardBin     string
	CardLast4   string
	ProductName string
}

type AdapterSelector interface {
	Select(partnerID int64) (acquirer.Adapter, bool)
}

// Service runs the pay use case. Recorder, Logger, Metrics and Clock are
// optional.
type Service struct {
	Partners  partner.Repository
	Policies  partner.FeePolicyRepository
	Acquirers AdapterSelector
	Repo      payment.Repository
	Recorder  contracts.EventRecorder
	Logger    logging.Logger
	Metrics   *metrics.Counters
	Clock     func() time.Time
}

// Pay approves cmd with the partner's acquirer and stores the resulting
// payment. Nothing is stored unless the acquirer approved. Errors from the
// acquirer are returned as they are.
func (s *Service) Pay(ctx context.Context, cmd Command) (*payment.Payment, error) {
	if cmd.Amount.IsNegative() {
		s.Metrics.IncRejected()
		return nil, ErrInvalidAmount
	}

	p, err := s.Partners.FindByID(ctx, cmd.PartnerID)
	if errors.Is(err, partner.ErrNotFound) {
		s.Metrics.IncRejected()
		return nil, fmt.Errorf("%w: id %d", ErrInvalidPartner, cmd.PartnerID)
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		s.Metrics.IncRejected()
		return nil, fmt.Errorf("%w: id %d", ErrPartnerInactive, cmd.PartnerID)
	}

	approvalInstant := s.now()

	policy, err := s.Policies.FindEffective(ctx, p.ID, approvalInstant)
	if errors.Is(err, partner.ErrNoFeePolicy) {
		s.Metrics.IncRejected()
		s.logger().Error("no effective fee policy", map[string]any{
			"partner-id": p.ID,
			"at":         approvalInstant,
		})
		return nil, fmt.Errorf("%w: partner %d at %s", ErrNoFeePolicy, p.ID, approvalInstant.Format(time.RFC3339))
	}
	if err != nil {
		return nil, err
	}
	if !policy.Valid() {
		s.Metrics.IncRejected()
		return nil, fmt.Errorf("%w: policy %d", ErrInvalidFeePolicy, policy.ID)
	}

	adapter, ok := s.Acquirers.Select(p.ID)
	if !ok {
		s.Metrics.IncRejected()
		s.logger().Error("no acquirer adapter for partner", map[string]any{"partner-id": p.ID})
		return nil, fmt.Errorf("%w: partner %d", ErrNoAdapter, p.ID)
	}

	result, err := adapter.Approve(ctx, acquirer.ApproveRequest{
		PartnerID:   p.ID,
		Amount:      cmd.Amount,
		CardBin:     cmd.CardBin,
		CardLast4:   cmd.CardLast4,
		ProductName: cmd.ProductName,
	})
	if err != nil {
		s.Metrics.IncAdapterFailure()
		s.logger().Error("acquirer approval failed", map[string]any{
			"partner-id": p.ID,
			"error":      err,
		})
		return nil, err
	}

	fees, err := fee.Calculate(cmd.Amount, policy.Percentage, policy.FixedFee)
	if err != nil {
		return nil, err
	}

	now := s.now()
	saved, err := s.Repo.Save(ctx, &payment.Payment{
		PartnerID:      p.ID,
		Amount:         cmd.Amount,
		AppliedFeeRate: policy.Percentage,
		FeeAmount:      fees.Fee,
		NetAmount:      fees.Net,
		CardLast4:      cmd.CardLast4,
		ApprovalCode:   result.ApprovalCode,
		ApprovedAt:     result.ApprovedAt,
		Status:         result.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		s.logger().Error("approved payment not persisted", map[string]any{
			"partner-id":    p.ID,
			"approval-code": result.ApprovalCode,
			"error":         err,
		})
		return nil, err
	}

	s.Metrics.IncApproved()
	s.logger().Info("payment approved", map[string]any{
		"payment-id":    saved.ID,
		"partner-id":    saved.PartnerID,
		"approval-code": saved.ApprovalCode,
		"fee-amount":    saved.FeeAmount.String(),
	})

	s.record(ctx, saved)

	return saved, nil
}

func (s *Service) record(ctx context.Context, p *payment.Payment) {
	if s.Recorder == nil {
		return
	}

	err := s.Recorder.Record(ctx, event.Event{
		Type:       event.PaymentApproved,
		Key:        fmt.Sprint(p.ID),
		OccurredAt: p.CreatedAt,
		Payload: event.PaymentApprovedPayload{
			PaymentID:      p.ID,
			PartnerID:      p.PartnerID,
			Amount:         p.Amount,
			AppliedFeeRate: p.AppliedFeeRate,
			FeeAmount:      p.FeeAmount,
			NetAmount:      p.NetAmount,
			ApprovalCode:   p.ApprovalCode,
			Status:         string(p.Status),
			ApprovedAt:     p.ApprovedAt,
		},
	})
	if err != nil {
		s.logger().Error("payment event not recorded", map[string]any{
			"payment-id": p.ID,
			"error":      err,
		})
	}
}

// now is truncated to microseconds, the finest precision every store keeps,
// so cursors built from stored rows round-trip exactly.
func (s *Service) now() time.Time {
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Microsecond)
}

func (s *Service) logger() logging.Logger {
	if s.Logger == nil {
		return logging.Nop{}
	}
	return s.Logger
}
