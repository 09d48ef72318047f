package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
)

type PartnerRepository struct {
	db *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) FindByID(ctx context.Context, id int64) (*partner.Partner, error) {
	var p partner.Partner
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, active FROM partners WHERE id = ?`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, partner.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]partner.Partner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, name, active FROM partners ORDER BY id`)
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
	var fp partner.FeePolicy
	err := r.db.QueryRowContext(ctx,
		`SELECT id, partner_id, effective_from, percentage, fixed_fee
		 FROM fee_policies
		 WHERE partner_id = ? AND effective_from <= ?
		 ORDER BY effective_from DESC, id DESC
		 LIMIT 1`,
		partnerID, at.UTC(),
	).Scan(&fp.ID, &fp.PartnerID, &fp.EffectiveFrom, &fp.Percentage, &fp.FixedFee)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, partner.ErrNoFeePolicy
	}
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

func (r *PartnerRepository) Upsert(ctx context.Context, partners []partner.Partner, policies []partner.FeePolicy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range partners {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO partners (id, code, name, active) VALUES (?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE code = VALUES(code), name = VALUES(name), active = VALUES(active)`,
			p.ID, p.Code, p.Name, p.Active,
		); err != nil {
			return fmt.Errorf("upsert partner %d: %w", p.ID, err)
		}
	}

	for _, fp := range policies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fee_policies (id, partner_id, effective_from, percentage, fixed_fee) VALUES (?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE partner_id = VALUES(partner_id), effective_from = VALUES(effective_from),
			   percentage = VALUES(percentage), fixed_fee = VALUES(fixed_fee)`,
			fp.ID, fp.PartnerID, fp.EffectiveFrom.UTC(), fp.Percentage, fp.FixedFee,
		); err != nil {
			return fmt.Errorf("upsert fee policy %d: %w", fp.ID, err)
		}
	}

	return tx.Commit()
}
