package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	domain "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

// TimeLayout is used for response timestamps and accepted for from/to.
const TimeLayout = "2006-01-02 15:04:05"

type CreatePaymentRequest struct {
	PartnerID   int64           `json:"partnerId" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	CardBin     string          `json:"cardBin"`
	CardLast4   string          `json:"cardLast4"`
	ProductName string          `json:"productName"`
}

type PaymentResponse struct {
	ID             int64           `json:"id"`
	PartnerID      int64           `json:"partnerId"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedFeeRate decimal.Decimal `json:"appliedFeeRate"`
	FeeAmount      decimal.Decimal `json:"feeAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	CardLast4      string          `json:"cardLast4,omitempty"`
	ApprovalCode   string          `json:"approvalCode"`
	ApprovedAt     string          `json:"approvedAt"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"createdAt"`
}

type SummaryResponse struct {
	Count          int64           `json:"count"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalNetAmount decimal.Decimal `json:"totalNetAmount"`
}

type QueryResponse struct {
	Items      []PaymentResponse `json:"items"`
	Summary    SummaryResponse   `json:"summary"`
	NextCursor *string           `json:"nextCursor"`
	HasNext    bool              `json:"hasNext"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func (r CreatePaymentRequest) command() payment.Command {
	return payment.Command{
		PartnerID:   r.PartnerID,
		Amount:      r.Amount,
		CardBin:     r.CardBin,
		CardLast4:   r.CardLast4,
		ProductName: r.ProductName,
	}
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		PartnerID:      p.PartnerID,
		Amount:         p.Amount,
		AppliedFeeRate: p.AppliedFeeRate,
		FeeAmount:      p.FeeAmount,
		NetAmount:      p.NetAmount,
		CardLast4:      p.CardLast4,
		ApprovalCode:   p.ApprovalCode,
		ApprovedAt:     p.ApprovedAt.UTC().Format(TimeLayout),
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt.UTC().Format(TimeLayout),
	}
}

func toQueryResponse(res *payment.QueryResult) QueryResponse {
	items := make([]PaymentResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, toPaymentResponse(&res.Items[i]))
	}
	return QueryResponse{
		Items: items,
		Summary: SummaryResponse{
			Count:          res.Summary.Count,
			TotalAmount:    res.Summary.TotalAmount,
			TotalNetAmount: res.Summary.TotalNetAmount,
		},
		NextCursor: res.NextCursor,
		HasNext:    res.HasNext,
	}
}
