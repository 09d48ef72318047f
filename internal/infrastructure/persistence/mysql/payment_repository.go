package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/sqlutil"
)

const paymentColumns = `id, partner_id, amount, applied_fee_rate, fee_amount, net_amount,
	card_last4, approval_code, approved_at, status, created_at, updated_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments
		 (partner_id, amount, applied_fee_rate, fee_amount, net_amount,
		  card_last4, approval_code, approved_at, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PartnerID,
		p.Amount,
		p.AppliedFeeRate,
		p.FeeAmount,
		p.NetAmount,
		p.CardLast4,
		p.ApprovalCode,
		p.ApprovedAt.UTC(),
		string(p.Status),
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	saved := *p
	saved.ID = id
	return &saved, nil
}

func (r *PaymentRepository) FindBy(ctx context.Context, q payment.Query) (payment.Page, error) {
	where, args := sqlutil.PageWhere(q, timeArg)
	args = append(args, q.Limit+1)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments"+where+sqlutil.PageOrder,
		args...,
	)
	if err != nil {
		return payment.Page{}, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var out []payment.Payment
	for rows.Next() {
		var (
			p      payment.Payment
			status string
		)
		if err := rows.Scan(
			&p.ID,
			&p.PartnerID,
			&p.Amount,
			&p.AppliedFeeRate,
			&p.FeeAmount,
			&p.NetAmount,
			&p.CardLast4,
			&p.ApprovalCode,
			&p.ApprovedAt,
			&status,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return payment.Page{}, err
		}
		p.Status = payment.Status(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return payment.Page{}, err
	}

	return payment.NewPage(out, q.Limit), nil
}

func (r *PaymentRepository) Summary(ctx context.Context, f payment.Filter) (payment.Summary, error) {
	where, args := sqlutil.Where(f, timeArg)

	var s payment.Summary
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(net_amount), 0) FROM payments`+where,
		args...,
	).Scan(&s.Count, &s.TotalAmount, &s.TotalNetAmount)
	if err != nil {
		return payment.Summary{}, fmt.Errorf("summarize payments: %w", err)
	}
	return s, nil
}
