package contracts

import (
	"context"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

type EventRecorder interface {
	Record(ctx context.Context, evt event.Event) error
}

type EventPublisher interface {
	Publish(event.Event) error
}
