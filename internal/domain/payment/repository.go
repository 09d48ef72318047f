package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Save(ctx context.Context, p *Payment) (*Payment, error)
	FindBy(ctx context.Context, q Query) (Page, error)
	Summary(ctx context.Context, f Filter) (Summary, error)
}

// Filter is the predicate shared by page and summary reads. Nil fields do
// not constrain. The time window is From <= CreatedAt < To.
type Filter struct {
	PartnerID *int64
	Status    *Status
	From      *time.Time
	To        *time.Time
}

func (f Filter) Matches(p *Payment) bool {
	if f.PartnerID != nil && p.PartnerID != *f.PartnerID {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.From != nil && p.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !p.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

// Query asks for one page ordered by (CreatedAt, ID) descending. When the
// cursor fields are set only rows strictly after that key are returned.
type Query struct {
	Filter
	CursorCreatedAt *time.Time
	CursorID        *int64
	Limit           int
}

func (q Query) HasCursor() bool {
	return q.CursorCreatedAt != nil && q.CursorID != nil
}

// After reports whether p sorts strictly after the cursor key in
// descending (CreatedAt, ID) order.
func (q Query) After(p *Payment) bool {
	if !q.HasCursor() {
		return true
	}
	if p.CreatedAt.Equal(*q.CursorCreatedAt) {
		return p.ID < *q.CursorID
	}
	return p.CreatedAt.Before(*q.CursorCreatedAt)
}

type Page struct {
	Items               []Payment
	HasNext             bool
	NextCursorCreatedAt *time.Time
	NextCursorID        *int64
}

// NewPage trims rows fetched with limit+1 lookahead into a page.
func NewPage(rows []Payment, limit int) Page {
	page := Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasNext = true
	}
	if page.Items == nil {
		page.Items = []Payment{}
	}
	if page.HasNext && len(page.Items) > 0 {
		last := page.Items[len(page.Items)-1]
		createdAt, id := last.CreatedAt, last.ID
		page.NextCursorCreatedAt = &createdAt
		page.NextCursorID = &id
	}
	return page
}

type Summary struct {
	Count          int64
	TotalAmount    decimal.Decimal
	TotalNetAmount decimal.Decimal
}

// Add accumulates p into the summary.
func (s *Summary) Add(p *Payment) {
	s.Count++
	s.TotalAmount = s.TotalAmount.Add(p.Amount)
	s.TotalNetAmount = s.TotalNetAmount.Add(p.NetAmount)
}
