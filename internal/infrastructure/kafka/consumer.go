package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

// NotificationConsumer reads bucket notifications from the upload topic.
// Offsets are committed explicitly by the controller.
type NotificationConsumer struct {
	*consumer.Consumer
}

func NewNotificationConsumer(c *consumer.Consumer) *NotificationConsumer {
	return &NotificationConsumer{c}
}

// ReadEvent blocks for the next notification. A closed reader reports
// errs.ErrReceiverClosed.
func (nc *NotificationConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := nc.Reader.FetchMessage(ctx)
	if errors.Is(err, io.EOF) {
		return kafka.Message{}, errs.ErrReceiverClosed
	}
	if err != nil {
		return kafka.Message{}, fmt.Errorf("NotificationConsumer - ReadEvent - nc.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (nc *NotificationConsumer) CommitEvent(ctx context.Context, msg kafka.Message) error {
	err := nc.Reader.CommitMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotificationConsumer - CommitEvent - topic %s partition %d offset %d: %w",
			msg.Topic, msg.Partition, msg.Offset, err)
	}

	return nil
}

func (nc *NotificationConsumer) Close() error {
	err := nc.Consumer.Close()
	if err != nil {
		return fmt.Errorf("NotificationConsumer - Close - nc.Consumer.Close: %w", err)
	}

	return nil
}
