package lambda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/internal/dto"
	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/aws/aws-lambda-go/events"
)

// Handler serves S3 triggers delivered directly to a Lambda function.
type Handler struct {
	photos  usecase.PhotoUseCase
	metrics infrastructure.Metrics
	logger  logger.Interface
}

func New(photos usecase.PhotoUseCase, m infrastructure.Metrics, l logger.Interface) *Handler {
	return &Handler{
		photos:  photos,
		metrics: m,
		logger:  l,
	}
}

// Handle processes every record of the trigger. It fails the invocation when
// any record failed, after all of them have been attempted.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) error {
	batch, err := dto.FromEvent(event)
	if err != nil {
		return fmt.Errorf("lambda - Handle - dto.FromEvent: %w", err)
	}

	return h.handle(ctx, batch)
}

// HandlePayload is Handle for the raw trigger document. The runtime's own
// events.S3Event decoding rejects the whole trigger when one object key is
// not URL-decodable; decoding here rejects only that record.
func (h *Handler) HandlePayload(ctx context.Context, payload json.RawMessage) error {
	batch, err := dto.Decode(payload)
	if err != nil {
		return fmt.Errorf("lambda - HandlePayload - dto.Decode: %w", err)
	}

	return h.handle(ctx, batch)
}

func (h *Handler) handle(ctx context.Context, batch *dto.Batch) error {
	for _, e := range batch.Skipped {
		h.metrics.ObserveEvent(entity.Skipped, 0)
		h.logger.Debug("lambda - handle - skip %s %s", e.EventName, e.SourceKey)
	}

	for _, r := range batch.Rejected {
		h.metrics.ObserveEvent(entity.Rejected, 0)
		h.logger.Error(r.Err, "lambda - handle - reject %q", r.Event.SourceKey)
	}

	for _, e := range batch.Created {
		h.logger.Info("lambda - handle - file uploaded: %s", e.SourceKey)
	}

	res := batch.Outcome(h.photos.ProcessBatch(ctx, batch.Created))

	err := res.Err()
	if err != nil {
		return fmt.Errorf("lambda - handle - %d/%d failed: %w", res.Failed(), len(res.Results), err)
	}

	return nil
}
