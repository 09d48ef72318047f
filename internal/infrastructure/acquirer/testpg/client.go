// Package testpg is the adapter for the Test PG card acquirer.
package testpg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

const (
	Name        = "testpg"
	approvePath = "/api/v1/pay/credit-card"
)

type Config struct {
	BaseURL        string
	APIKey         string
	IV             string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Claim          acquirer.Claim
}

type Client struct {
	baseURL string
	apiKey  string
	claim   acquirer.Claim
	sealer  *Sealer
	http    *http.Client
	logger  logging.Logger
}

func New(cfg Config, logger logging.Logger) (*Client, error) {
	sealer, err := NewSealer(cfg.APIKey, cfg.IV)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
	transport.ResponseHeaderTimeout = cfg.ReadTimeout

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		claim:   cfg.Claim,
		sealer:  sealer,
		http:    &http.Client{Transport: transport, Timeout: cfg.ConnectTimeout + cfg.ReadTimeout},
		logger:  logger,
	}, nil
}

func (c *Client) Supports(partnerID int64) bool {
	return c.claim.Covers(partnerID)
}

type cardPayload struct {
	CardNumber string `json:"cardNumber"`
	BirthDate  string `json:"birthDate"`
	Expiry     string `json:"expiry"`
	Password   string `json:"password"`
	Amount     int64  `json:"amount"`
}

type approveResponse struct {
	ApprovalCode string `json:"approvalCode"`
	ApprovedAt   string `json:"approvedAt"`
	Status       string `json:"status"`
}

func (c *Client) Approve(ctx context.Context, req acquirer.ApproveRequest) (acquirer.ApproveResult, error) {
	// the sandbox only validates card shape; holder fields are fixed test values
	plain, err := json.Marshal(cardPayload{
		CardNumber: req.CardBin + "000000" + req.CardLast4,
		BirthDate:  "19900101",
		Expiry:     "1227",
		Password:   "12",
		Amount:     req.Amount.IntPart(),
	})
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, 0, "encode request", err)
	}

	body, err := json.Marshal(map[string]string{"enc": c.sealer.Seal(plain)})
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, 0, "encode envelope", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+approvePath, bytes.NewReader(body))
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, 0, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("API-KEY", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("testpg request failed", map[string]any{"partner_id": req.PartnerID, "error": err})
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureConnectivity, 0, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureConnectivity, resp.StatusCode, "read response", err)
	}

	switch {
	case resp.StatusCode >= 500:
		c.logger.Error("testpg server error", map[string]any{"status": resp.StatusCode, "body": string(raw)})
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureServer, resp.StatusCode, string(raw), nil)
	case resp.StatusCode >= 400:
		c.logger.Warn("testpg rejected approval", map[string]any{"status": resp.StatusCode, "body": string(raw)})
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureClient, resp.StatusCode, string(raw), nil)
	case resp.StatusCode >= 300:
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, resp.StatusCode, "unexpected redirect", nil)
	}

	var out approveResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, resp.StatusCode, "decode response", err)
	}

	approvedAt, err := parseApprovedAt(out.ApprovedAt)
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, resp.StatusCode, "decode approvedAt", err)
	}
	status, err := payment.ParseStatus(out.Status)
	if err != nil {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, resp.StatusCode, "decode status", err)
	}
	if out.ApprovalCode == "" {
		return acquirer.ApproveResult{}, c.fail(acquirer.FailureUnknown, resp.StatusCode, "missing approvalCode", nil)
	}

	c.logger.Info("testpg approved", map[string]any{
		"partner_id":    req.PartnerID,
		"approval_code": out.ApprovalCode,
	})

	return acquirer.ApproveResult{
		ApprovalCode: out.ApprovalCode,
		ApprovedAt:   approvedAt,
		Status:       status,
	}, nil
}

// The acquirer sends local date-times without an offset; those are taken as UTC.
func parseApprovedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	if err != nil {
		return time.Time{}, errors.New("unrecognised timestamp " + s)
	}
	return t, nil
}

func (c *Client) fail(kind acquirer.FailureKind, status int, msg string, err error) error {
	return &acquirer.Error{
		Adapter:    Name,
		Kind:       kind,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}

var _ acquirer.Adapter = (*Client)(nil)
