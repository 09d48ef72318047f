package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

type Dispatcher struct {
	Repo         Repository
	Publisher    contracts.EventPublisher
	PollInterval time.Duration
	BatchSize    int
	Logger       logging.Logger
	Metrics      *metrics.Counters

	// MaxBackoff caps the poll delay while publishing keeps failing.
	MaxBackoff time.Duration
}

func (d *Dispatcher) Run(ctx context.Context) {
	backoff := Backoff{Base: d.PollInterval, Max: d.maxDelay()}
	failures := 0

	timer := time.NewTimer(backoff.Delay(failures))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if _, failed := d.dispatch(ctx); failed {
				failures++
			} else {
				failures = 0
			}
			timer.Reset(backoff.Delay(failures))
		}
	}
}

// DispatchOnce publishes one batch and returns how many events went out.
// Events that fail to publish stay unpublished and are retried next round.
func (d *Dispatcher) DispatchOnce(ctx context.Context) int {
	sent, _ := d.dispatch(ctx)
	return sent
}

func (d *Dispatcher) dispatch(ctx context.Context) (sent int, failed bool) {
	events, err := d.Repo.FindUnpublished(ctx, d.BatchSize)
	if err != nil {
		d.logger().Error("outbox poll failed", map[string]any{"error": err})
		return 0, true
	}

	for _, evt := range events {
		domainEvent := event.Event{
			Type:       evt.Type,
			Key:        evt.Key,
			Payload:    json.RawMessage(evt.Payload),
			OccurredAt: evt.CreatedAt,
		}

		if err := d.Publisher.Publish(domainEvent); err != nil {
			failed = true
			d.Metrics.IncEventsFailed()
			d.logger().Warn("event publish failed", map[string]any{
				"outbox_id": evt.ID,
				"type":      string(evt.Type),
				"error":     err,
			})
			continue
		}

		if err := d.Repo.MarkPublished(ctx, evt.ID); err != nil {
			failed = true
			d.logger().Error("outbox mark failed", map[string]any{
				"outbox_id": evt.ID,
				"error":     err,
			})
			continue
		}

		d.Metrics.IncEventsPublished()
		sent++
	}

	return sent, failed
}

func (d *Dispatcher) maxDelay() time.Duration {
	if d.MaxBackoff > 0 {
		return d.MaxBackoff
	}
	return 30 * d.PollInterval
}

func (d *Dispatcher) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop{}
	}
	return d.Logger
}
