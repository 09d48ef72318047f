package outbox

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

type OutboxEvent struct {
	ID        string
	Type      event.Type
	Key       string
	Payload   []byte
	Published bool
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, evt OutboxEvent) error
	FindUnpublished(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id string) error
}
