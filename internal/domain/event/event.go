package event

import "time"

type Type string

const (
	PaymentApproved Type = "PAYMENT_APPROVED"
)

type Event struct {
	Type       Type
	Key        string
	Payload    any
	OccurredAt time.Time
}
