package eventbus

import (
	"fmt"
	"sync"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

type HandlerFunc func(event.Event) error

// InMemoryBus is the publisher used when no broker is configured.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[event.Type][]HandlerFunc),
	}
}

func (b *InMemoryBus) Subscribe(eventType event.Type, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish stops at the first failing handler so the outbox retries the event.
func (b *InMemoryBus) Publish(evt event.Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(evt); err != nil {
			return fmt.Errorf("handle %s: %w", evt.Type, err)
		}
	}

	return nil
}

// LogHandler writes every delivered event to logger.
func LogHandler(logger logging.Logger) HandlerFunc {
	return func(evt event.Event) error {
		logger.Info("event delivered", map[string]any{
			"type":        string(evt.Type),
			"key":         evt.Key,
			"occurred_at": evt.OccurredAt,
		})
		return nil
	}
}
