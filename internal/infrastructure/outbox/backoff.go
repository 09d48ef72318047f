package outbox

import "time"

// Backoff doubles the wait after each consecutive failed round, capped at Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before the next round after failures consecutive
// failed rounds. Zero failures waits Base.
func (b Backoff) Delay(failures int) time.Duration {
	if failures <= 0 || b.Base <= 0 {
		return b.Base
	}
	if failures > 30 {
		failures = 30
	}
	delay := b.Base * time.Duration(1<<failures)
	if b.Max > 0 && (delay > b.Max || delay <= 0) {
		return b.Max
	}
	return delay
}
