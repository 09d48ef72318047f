package payment

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

const DefaultLimit = 20

type QueryFilter struct {
	PartnerID *int64
	Status    string
	From      *time.Time
	To        *time.Time
	Cursor    string
	Limit     int
}

type QueryResult struct {
	Items      []payment.Payment
	Summary    payment.Summary
	NextCursor *string
	HasNext    bool
}

// QueryService lists payments with keyset pagination and summarises the
// whole filtered set. The page and the summary are two independent reads and
// may observe different snapshots under concurrent writes.
type QueryService struct {
	Repo         payment.Repository
	Codec        CursorCodec
	DefaultLimit int
	Logger       logging.Logger
	Metrics      *metrics.Counters
}

func (s *QueryService) Query(ctx context.Context, f QueryFilter) (*QueryResult, error) {
	filter := payment.Filter{
		PartnerID: f.PartnerID,
		From:      f.From,
		To:        f.To,
	}
	if f.Status != "" {
		st, err := payment.ParseStatus(f.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		filter.Status = &st
	}

	q := payment.Query{Filter: filter, Limit: s.limit(f.Limit)}
	if f.Cursor != "" {
		c, err := s.codec().Decode(f.Cursor)
		if err != nil {
			return nil, err
		}
		q.CursorCreatedAt = &c.CreatedAt
		q.CursorID = &c.ID
	}

	page, err := s.Repo.FindBy(ctx, q)
	if err != nil {
		return nil, err
	}

	summary, err := s.Repo.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncQueries()

	res := &QueryResult{
		Items:   page.Items,
		Summary: summary,
		HasNext: page.HasNext,
	}
	if res.Items == nil {
		res.Items = []payment.Payment{}
	}
	if page.HasNext && page.NextCursorCreatedAt != nil && page.NextCursorID != nil {
		token := s.codec().Encode(Cursor{CreatedAt: *page.NextCursorCreatedAt, ID: *page.NextCursorID})
		res.NextCursor = &token
	}

	if s.Logger != nil {
		s.Logger.Debug("payments queried", map[string]any{
			"items":    len(res.Items),
			"has-next": res.HasNext,
			"count":    summary.Count,
		})
	}

	return res, nil
}

func (s *QueryService) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.DefaultLimit > 0 {
		return s.DefaultLimit
	}
	return DefaultLimit
}

func (s *QueryService) codec() CursorCodec {
	if s.Codec == nil {
		return Base64Cursor{}
	}
	return s.Codec
}
