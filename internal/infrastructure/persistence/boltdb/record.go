package boltdb

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type record struct {
	ID             int64           `json:"id"`
	PartnerID      int64           `json:"partner_id"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedFeeRate decimal.Decimal `json:"applied_fee_rate"`
	FeeAmount      decimal.Decimal `json:"fee_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	CardLast4      string          `json:"card_last4"`
	ApprovalCode   string          `json:"approval_code"`
	ApprovedAt     time.Time       `json:"approved_at"`
	Status         payment.Status  `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toRecord(p *payment.Payment) record {
	return record{
		ID:             p.ID,
		PartnerID:      p.PartnerID,
		Amount:         p.Amount,
		AppliedFeeRate: p.AppliedFeeRate,
		FeeAmount:      p.FeeAmount,
		NetAmount:      p.NetAmount,
		CardLast4:      p.CardLast4,
		ApprovalCode:   p.ApprovalCode,
		ApprovedAt:     p.ApprovedAt,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func decode(data []byte) (payment.Payment, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return payment.Payment{}, err
	}
	return payment.Payment{
		ID:             rec.ID,
		PartnerID:      rec.PartnerID,
		Amount:         rec.Amount,
		AppliedFeeRate: rec.AppliedFeeRate,
		FeeAmount:      rec.FeeAmount,
		NetAmount:      rec.NetAmount,
		CardLast4:      rec.CardLast4,
		ApprovalCode:   rec.ApprovalCode,
		ApprovedAt:     rec.ApprovedAt,
		Status:         rec.Status,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}, nil
}
