package outbox

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository backs the outbox when payments live in memory or bolt.
type MemoryRepository struct {
	mu     sync.Mutex
	events map[string]OutboxEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[string]OutboxEvent)}
}

func (r *MemoryRepository) Save(_ context.Context, evt OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[evt.ID] = evt
	return nil
}

func (r *MemoryRepository) FindUnpublished(_ context.Context, limit int) ([]OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []OutboxEvent
	for _, evt := range r.events {
		if !evt.Published {
			out = append(out, evt)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkPublished(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt, ok := r.events[id]; ok {
		evt.Published = true
		r.events[id] = evt
	}
	return nil
}
