package event

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentApprovedPayload struct {
	PaymentID      int64           `json:"payment_id"`
	PartnerID      int64           `json:"partner_id"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedFeeRate decimal.Decimal `json:"applied_fee_rate"`
	FeeAmount      decimal.Decimal `json:"fee_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	ApprovalCode   string          `json:"approval_code"`
	Status         string          `json:"status"`
	ApprovedAt     time.Time       `json:"approved_at"`
}
