package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusFailed   Status = "FAILED"
	StatusCanceled Status = "CANCELED"
)

var ErrUnknownStatus = errors.New("unknown payment status")

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusApproved, StatusFailed, StatusCanceled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Payment is written once after a successful acquirer approval and never
// mutated afterwards. ID is zero until the store assigns it.
type Payment struct {
	ID             int64
	PartnerID      int64
	Amount         decimal.Decimal
	AppliedFeeRate decimal.Decimal
	FeeAmount      decimal.Decimal
	NetAmount      decimal.Decimal
	CardLast4      string
	ApprovalCode   string
	ApprovedAt     time.Time
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
