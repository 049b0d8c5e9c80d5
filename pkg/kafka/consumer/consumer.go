package consumer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultMaxWait      = 500 * time.Millisecond
	_defaultMaxBytes     = 10e6
)

type Consumer struct {
	connAttempts int
	connTimeout  time.Duration

	brokers     []string
	groupID     string
	topic       string
	maxWait     time.Duration
	startOffset int64

	Reader *kafka.Reader
}

// New joins groupID on topic. Notifications are small and sparse, so the
// reader returns as soon as one message is available (MinBytes 1) and waits
// at most maxWait otherwise.
func New(ctx context.Context, brokers []string, groupID, topic string, opts ...Option) (*Consumer, error) {
	c := &Consumer{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		brokers:      brokers,
		groupID:      groupID,
		topic:        topic,
		maxWait:      _defaultMaxWait,
		startOffset:  kafka.FirstOffset,
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.brokers) == 0 {
		return nil, fmt.Errorf("Kafka Consumer - New - no brokers")
	}

	var err error

	for c.connAttempts > 0 {
		err = c.ping(ctx)
		if err == nil {
			break
		}

		log.Printf("Kafka consumer is trying to connect, attempts left: %d", c.connAttempts)

		time.Sleep(c.connTimeout)

		c.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("Kafka Consumer - New - connAttempts == 0: %w", err)
	}

	c.Reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       c.topic,
		MinBytes:    1,
		MaxBytes:    _defaultMaxBytes,
		MaxWait:     c.maxWait,
		StartOffset: c.startOffset,
	})

	return c, nil
}

func (c *Consumer) ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.brokers[0])
	if err != nil {
		return fmt.Errorf("Kafka Consumer - kafka.DialContext: %w", err)
	}
	defer conn.Close()

	_, err = conn.Brokers()
	if err != nil {
		return fmt.Errorf("Kafka Consumer - conn.Brokers: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if c.Reader != nil {
		return c.Reader.Close()
	}
	return nil
}
