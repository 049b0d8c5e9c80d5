package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

type EventProducer struct {
	*producer.Producer
	topic string
}

func NewEventProducer(producer *producer.Producer, topic string) *EventProducer {
	return &EventProducer{
		producer,
		topic,
	}
}

// SendProcessed publishes the event keyed by user id, so every photo of one
// user lands on the same partition.
func (ep *EventProducer) SendProcessed(ctx context.Context, event *entity.PhotoProcessedEvent) error {
	msg, err := processedMessage(ep.topic, event)
	if err != nil {
		return fmt.Errorf("EventProducer - SendProcessed - processedMessage: %w", err)
	}

	err = ep.Writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("EventProducer - SendProcessed - ep.Writer.WriteMessages: %w", err)
	}

	return nil
}

func processedMessage(topic string, event *entity.PhotoProcessedEvent) (kafka.Message, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("json.Marshal: %w", err)
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(event.UserID),
		Value: b,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
			{Key: "event_type", Value: []byte("photo.processed")},
		},
	}, nil
}

func (ep *EventProducer) Close() error {
	err := ep.Producer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
