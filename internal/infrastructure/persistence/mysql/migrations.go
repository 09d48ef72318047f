package mysql

import (
	"context"
	"database/sql"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS partners (
			id BIGINT PRIMARY KEY,
			code VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS fee_policies (
			id BIGINT PRIMARY KEY,
			partner_id BIGINT NOT NULL,
			effective_from DATETIME(6) NOT NULL,
			percentage DECIMAL(10,6) NOT NULL,
			fixed_fee DECIMAL(19,4) NULL,
			INDEX idx_fee_policies_partner_effective (partner_id, effective_from),
			FOREIGN KEY (partner_id) REFERENCES partners(id)
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			partner_id BIGINT NOT NULL,
			amount DECIMAL(19,4) NOT NULL,
			applied_fee_rate DECIMAL(10,6) NOT NULL,
			fee_amount DECIMAL(19,4) NOT NULL,
			net_amount DECIMAL(19,4) NOT NULL,
			card_last4 CHAR(4) NOT NULL,
			approval_code VARCHAR(64) NOT NULL,
			approved_at DATETIME(6) NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			INDEX idx_payments_created_id (created_at, id),
			INDEX idx_payments_partner_created (partner_id, created_at)
		)`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id CHAR(36) PRIMARY KEY,
			event_type VARCHAR(64) NOT NULL,
			event_key VARCHAR(64) NOT NULL,
			payload BLOB NOT NULL,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL,
			INDEX idx_outbox_unpublished (published, created_at)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
