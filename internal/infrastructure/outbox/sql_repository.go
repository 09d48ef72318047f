package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

// SQLRepository works on both the sqlite and mysql schemas: created_at is an
// integer of unix microseconds in each.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Save(ctx context.Context, evt OutboxEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, event_key, payload, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		evt.ID,
		string(evt.Type),
		evt.Key,
		evt.Payload,
		false,
		evt.CreatedAt.UnixMicro(),
	)
	return err
}

func (r *SQLRepository) FindUnpublished(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_type, event_key, payload, published, created_at
		FROM outbox_events
		WHERE published = ?
		ORDER BY created_at, id
		LIMIT ?
	`, false, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent

	for rows.Next() {
		var (
			evt       OutboxEvent
			typ       string
			createdAt int64
		)

		if err := rows.Scan(
			&evt.ID,
			&typ,
			&evt.Key,
			&evt.Payload,
			&evt.Published,
			&createdAt,
		); err != nil {
			return nil, err
		}

		evt.Type = event.Type(typ)
		evt.CreatedAt = time.UnixMicro(createdAt).UTC()
		events = append(events, evt)
	}

	return events, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events
		SET published = ?
		WHERE id = ?
	`, true, id)

	return err
}
