package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	domain "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

const DefaultMaxLimit = 100

type PaymentService interface {
	Pay(ctx context.Context, cmd payment.Command) (*domain.Payment, error)
}

type QueryService interface {
	Query(ctx context.Context, f payment.QueryFilter) (*payment.QueryResult, error)
}

type Handler struct {
	Payments PaymentService
	Queries  QueryService
	Metrics  *metrics.Counters
	Logger   logging.Logger
	// MaxLimit caps the page size a client may ask for.
	MaxLimit int
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.Payments.Pay(c.Request.Context(), req.command())
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(p))
}

func (h *Handler) ListPayments(c *gin.Context) {
	f, err := h.parseQuery(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	res, err := h.Queries.Query(c.Request.Context(), f)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, toQueryResponse(res))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) MetricsSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Metrics.Snapshot())
}

func (h *Handler) parseQuery(c *gin.Context) (payment.QueryFilter, error) {
	f := payment.QueryFilter{
		Status: c.Query("status"),
		Cursor: c.Query("cursor"),
	}

	if v := c.Query("partnerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid partnerId %q", v)
		}
		f.PartnerID = &id
	}

	var err error
	if f.From, err = parseTime(c.Query("from")); err != nil {
		return f, fmt.Errorf("invalid from: %w", err)
	}
	if f.To, err = parseTime(c.Query("to")); err != nil {
		return f, fmt.Errorf("invalid to: %w", err)
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return f, fmt.Errorf("invalid limit %q", v)
		}
		f.Limit = min(limit, h.maxLimit())
	}

	return f, nil
}

// parseTime accepts TimeLayout (read as UTC) or RFC 3339.
func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(TimeLayout, v, time.UTC); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%q is neither %q nor RFC 3339", v, TimeLayout)
	}
	t = t.UTC()
	return &t, nil
}

func (h *Handler) maxLimit() int {
	if h.MaxLimit > 0 {
		return h.MaxLimit
	}
	return DefaultMaxLimit
}

func (h *Handler) logger() logging.Logger {
	if h.Logger == nil {
		return logging.Nop{}
	}
	return h.Logger
}
