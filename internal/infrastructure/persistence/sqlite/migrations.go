package sqlite

import (
	"context"
	"database/sql"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS partners (
			id INTEGER PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		);`,

		`CREATE TABLE IF NOT EXISTS fee_policies (
			id INTEGER PRIMARY KEY,
			partner_id INTEGER NOT NULL REFERENCES partners(id),
			effective_from INTEGER NOT NULL,
			percentage TEXT NOT NULL,
			fixed_fee TEXT
		);`,

		`CREATE INDEX IF NOT EXISTS idx_fee_policies_partner_effective
			ON fee_policies (partner_id, effective_from);`,

		`CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			partner_id INTEGER NOT NULL,
			amount TEXT NOT NULL,
			applied_fee_rate TEXT NOT NULL,
			fee_amount TEXT NOT NULL,
			net_amount TEXT NOT NULL,
			card_last4 TEXT NOT NULL,
			approval_code TEXT NOT NULL,
			approved_at INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_payments_created_id
			ON payments (created_at, id);`,

		`CREATE INDEX IF NOT EXISTS idx_payments_partner_created
			ON payments (partner_id, created_at);`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			event_key TEXT NOT NULL,
			payload BLOB NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
