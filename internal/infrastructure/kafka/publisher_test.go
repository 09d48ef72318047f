package kafka_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/kafka"
)

func TestPublisher_SendsEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	occurred := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "payments.approved" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return errors.New("wrong key " + string(key))
		}
		return nil
	})
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env kafka.Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Type != event.PaymentApproved || env.Key != "42" || !env.OccurredAt.Equal(occurred) {
			return errors.New("unexpected envelope " + string(val))
		}
		return nil
	})

	pub := kafka.NewPublisher(producer, "payments.approved")

	evt := event.Event{
		Type:       event.PaymentApproved,
		Key:        "42",
		Payload:    json.RawMessage(`{"payment_id":42}`),
		OccurredAt: occurred,
	}
	require.NoError(t, pub.Publish(evt))
	require.NoError(t, pub.Publish(evt))
}

func TestPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := kafka.NewPublisher(producer, "payments.approved")
	err := pub.Publish(event.Event{Type: event.PaymentApproved, Key: "1"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}
