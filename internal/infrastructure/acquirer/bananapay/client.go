// Package bananapay is the in-house acquirer. Approval is simulated locally.
package bananapay

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

const Name = "bananapay"

type Client struct {
	Claim  acquirer.Claim
	Logger logging.Logger
	Clock  func() time.Time
	// Code returns the 4-digit suffix of the approval code.
	Code func() int
}

func New(claim acquirer.Claim, logger logging.Logger) *Client {
	return &Client{Claim: claim, Logger: logger}
}

func (c *Client) Supports(partnerID int64) bool {
	return c.Claim.Covers(partnerID)
}

func (c *Client) Approve(ctx context.Context, req acquirer.ApproveRequest) (acquirer.ApproveResult, error) {
	if err := ctx.Err(); err != nil {
		return acquirer.ApproveResult{}, &acquirer.Error{
			Adapter: Name,
			Kind:    acquirer.FailureConnectivity,
			Message: "request abandoned",
			Err:     err,
		}
	}

	code := fmt.Sprintf("BANANA-%04d", c.code())

	c.logger().Info("bananapay approved", map[string]any{
		"partner_id":    req.PartnerID,
		"amount":        req.Amount.String(),
		"approval_code": code,
	})

	return acquirer.ApproveResult{
		ApprovalCode: code,
		ApprovedAt:   c.now(),
		Status:       payment.StatusApproved,
	}, nil
}

func (c *Client) code() int {
	if c.Code != nil {
		return c.Code()
	}
	return 1000 + rand.Intn(9000)
}

func (c *Client) now() time.Time {
	if c.Clock != nil {
		return c.Clock().UTC()
	}
	return time.Now().UTC()
}

func (c *Client) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop{}
	}
	return c.Logger
}
