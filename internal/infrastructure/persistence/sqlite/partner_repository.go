package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
)

// PartnerRepository serves both the partner directory and the fee policy
// lookup from the same database.
type PartnerRepository struct {
	db *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) FindByID(ctx context.Context, id int64) (*partner.Partner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, active
		 FROM partners
		 WHERE id = ?`,
		id,
	)

	var p partner.Partner
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, partner.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]partner.Partner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, active FROM partners ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []partner.Partner
	for rows.Next() {
		var p partner.Partner
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PartnerRepository) FindEffective(ctx context.Context, partnerID int64, at time.Time) (*partner.FeePolicy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, partner_id, effective_from, percentage, fixed_fee
		 FROM fee_policies
		 WHERE partner_id = ? AND effective_from <= ?
		 ORDER BY effective_from DESC, id DESC
		 LIMIT 1`,
		partnerID,
		toMicros(at),
	)

	var (
		fp            partner.FeePolicy
		effectiveFrom int64
	)
	if err := row.Scan(&fp.ID, &fp.PartnerID, &effectiveFrom, &fp.Percentage, &fp.FixedFee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, partner.ErrNoFeePolicy
		}
		return nil, err
	}
	fp.EffectiveFrom = fromMicros(effectiveFrom)
	return &fp, nil
}

// Upsert loads seed data in one transaction, replacing rows with equal ids.
func (r *PartnerRepository) Upsert(ctx context.Context, partners []partner.Partner, policies []partner.FeePolicy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range partners {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO partners (id, code, name, active) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name, active = excluded.active`,
			p.ID, p.Code, p.Name, p.Active,
		); err != nil {
			return fmt.Errorf("upsert partner %d: %w", p.ID, err)
		}
	}

	for _, fp := range policies {
		var fixed any
		if fp.FixedFee.Valid {
			fixed = fp.FixedFee.Decimal.String()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fee_policies (id, partner_id, effective_from, percentage, fixed_fee) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET partner_id = excluded.partner_id, effective_from = excluded.effective_from,
			   percentage = excluded.percentage, fixed_fee = excluded.fixed_fee`,
			fp.ID, fp.PartnerID, toMicros(fp.EffectiveFrom), fp.Percentage.String(), fixed,
		); err != nil {
			return fmt.Errorf("upsert fee policy %d: %w", fp.ID, err)
		}
	}

	return tx.Commit()
}
