package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

const _readRetryDelay = time.Second

type KafkaController struct {
	photos  usecase.PhotoUseCase
	ec      infrastructure.EventsReceiver
	metrics infrastructure.Metrics
	logger  logger.Interface

	commitTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	photos usecase.PhotoUseCase,
	ec infrastructure.EventsReceiver,
	m infrastructure.Metrics,
	l logger.Interface,
	commitTimeout time.Duration,
	workers int,
) *KafkaController {
	if workers < 1 {
		workers = 1
	}

	return &KafkaController{
		photos:        photos,
		ec:            ec,
		metrics:       m,
		logger:        l,
		commitTimeout: commitTimeout,
		workers:       workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	// канал для задач
	tasks := make(chan kafka.Message, c.workers*2)

	// запускаем воркеры
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. читаем из кафки
				event, err := c.ec.ReadEvent(c.ctx)
				if errors.Is(err, errs.ErrReceiverClosed) {
					return
				}
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.ec.ReadEvent")
						c.pause(_readRetryDelay)
					}
					continue
				}

				// 2. отправляем в канал для воркеров
				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

// handleMessage processes every upload of one notification. Each upload is
// bounded by the use case's own per-event deadline.
func (c *KafkaController) handleMessage(ctx context.Context, msg kafka.Message) error {
	batch, err := decodeMessage(msg)
	if err != nil {
		return fmt.Errorf("KafkaController - handleMessage - decodeMessage: %w", err)
	}

	for _, event := range batch.Skipped {
		c.metrics.ObserveEvent(entity.Skipped, 0)
		c.logger.Debug("KafkaController - handleMessage - skip %s %s", event.EventName, event.SourceKey)
	}

	for _, r := range batch.Rejected {
		c.metrics.ObserveEvent(entity.Rejected, 0)
		c.logger.Error(r.Err, "KafkaController - handleMessage - reject %q", r.Event.SourceKey)
	}

	res := batch.Outcome(c.photos.ProcessBatch(ctx, batch.Created))

	err = res.Err()
	if err != nil {
		return fmt.Errorf("KafkaController - handleMessage - %d/%d failed: %w", res.Failed(), len(res.Results), err)
	}

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	// читаем канал, пока не закроется
	for msg := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			err := c.handleMessage(c.ctx, msg)
			if err != nil {
				// остановка посреди обработки: не коммитим, сообщение придет снова
				if c.ctx.Err() != nil {
					c.logger.Warn("KafkaController - worker - offset %d not committed, shutting down", msg.Offset)
					return
				}

				c.logger.Error(err, "KafkaController - worker - c.handleMessage offset %d", msg.Offset)
			}

			// коммитим после любой попытки: повторов нет, битое сообщение не должно блокировать партицию
			commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
			err = c.ec.CommitEvent(commitCtx, msg)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.ec.CommitEvent")
			}
		}()
	}
}

func (c *KafkaController) pause(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-c.ctx.Done():
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.ec.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("KafkaController - Shutdown: %w", ctx.Err())
	}
}
