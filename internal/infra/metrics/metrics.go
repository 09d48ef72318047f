package metrics

import "sync/atomic"

// Counters is safe for concurrent use. A nil *Counters ignores increments.
type Counters struct {
	PaymentsApproved uint64
	PaymentsRejected uint64
	AdapterFailures  uint64
	Queries          uint64
	EventsPublished  uint64
	EventsFailed     uint64
}

type Snapshot struct {
	PaymentsApproved uint64 `json:"payments_approved"`
	PaymentsRejected uint64 `json:"payments_rejected"`
	AdapterFailures  uint64 `json:"adapter_failures"`
	Queries          uint64 `json:"queries"`
	EventsPublished  uint64 `json:"events_published"`
	EventsFailed     uint64 `json:"events_failed"`
}

func (c *Counters) IncApproved() {
	if c != nil {
		atomic.AddUint64(&c.PaymentsApproved, 1)
	}
}

func (c *Counters) IncRejected() {
	if c != nil {
		atomic.AddUint64(&c.PaymentsRejected, 1)
	}
}

func (c *Counters) IncAdapterFailure() {
	if c != nil {
		atomic.AddUint64(&c.AdapterFailures, 1)
	}
}

func (c *Counters) IncQueries() {
	if c != nil {
		atomic.AddUint64(&c.Queries, 1)
	}
}

func (c *Counters) IncEventsPublished() {
	if c != nil {
		atomic.AddUint64(&c.EventsPublished, 1)
	}
}

func (c *Counters) IncEventsFailed() {
	if c != nil {
		atomic.AddUint64(&c.EventsFailed, 1)
	}
}

func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		PaymentsApproved: atomic.LoadUint64(&c.PaymentsApproved),
		PaymentsRejected: atomic.LoadUint64(&c.PaymentsRejected),
		AdapterFailures:  atomic.LoadUint64(&c.AdapterFailures),
		Queries:          atomic.LoadUint64(&c.Queries),
		EventsPublished:  atomic.LoadUint64(&c.EventsPublished),
		EventsFailed:     atomic.LoadUint64(&c.EventsFailed),
	}
}
