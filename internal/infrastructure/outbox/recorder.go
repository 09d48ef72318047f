package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

// Recorder stores events for later delivery by the Dispatcher.
type Recorder struct {
	Repo Repository
}

func (r *Recorder) Record(ctx context.Context, evt event.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", evt.Type, err)
	}

	createdAt := evt.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return r.Repo.Save(ctx, OutboxEvent{
		ID:        uuid.NewString(),
		Type:      evt.Type,
		Key:       evt.Key,
		Payload:   payload,
		CreatedAt: createdAt,
	})
}
