package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// Envelope is the message value written to the topic.
type Envelope struct {
	Type       event.Type `json:"type"`
	Key        string     `json:"key"`
	OccurredAt time.Time  `json:"occurred_at"`
	Payload    any        `json:"payload"`
}

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	return sarama.NewSyncProducer(cfg.Brokers, config)
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish keys messages by event key so all events of one payment land on
// the same partition.
func (p *Publisher) Publish(evt event.Event) error {
	b, err := json.Marshal(Envelope{
		Type:       evt.Type,
		Key:        evt.Key,
		OccurredAt: evt.OccurredAt,
		Payload:    evt.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Key),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(evt.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", evt.Type, p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
