// Package sqlutil builds the payment predicate and keyset clauses shared by
// the SQL stores. Both supported dialects use '?' placeholders; they differ
// only in how timestamps are bound, which the caller supplies.
package sqlutil

import (
	"strings"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type TimeArg func(time.Time) any

// Where renders f as a WHERE clause (empty when f is unconstrained).
func Where(f payment.Filter, timeArg TimeArg) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.PartnerID != nil {
		conds = append(conds, "partner_id = ?")
		args = append(args, *f.PartnerID)
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, timeArg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, timeArg(*f.To))
	}
	return render(conds), args
}

// PageWhere adds the keyset condition of q to its filter.
func PageWhere(q payment.Query, timeArg TimeArg) (string, []any) {
	clause, args := Where(q.Filter, timeArg)
	if !q.HasCursor() {
		return clause, args
	}

	keyset := "(created_at < ? OR (created_at = ? AND id < ?))"
	at := timeArg(*q.CursorCreatedAt)
	args = append(args, at, at, *q.CursorID)

	if clause == "" {
		return " WHERE " + keyset, args
	}
	return clause + " AND " + keyset, args
}

// PageOrder is the keyset sort; callers fetch Limit+1 rows to detect a next page.
const PageOrder = " ORDER BY created_at DESC, id DESC LIMIT ?"

func render(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
