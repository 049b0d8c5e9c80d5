package photo

import (
	"context"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
)

// ProcessBatch handles events one after another, each under its own
// deadline. A failed event never stops the rest.
func (uc *PhotoUseCase) ProcessBatch(ctx context.Context, events []entity.UploadEvent) *entity.BatchResult {
	result := &entity.BatchResult{Results: make([]entity.EventResult, 0, len(events))}

	for _, event := range events {
		record, err := uc.processWithTimeout(ctx, event)
		if err != nil {
			uc.logger.Error(err, "PhotoUseCase - ProcessBatch - %s", event.SourceKey)
		}

		result.Results = append(result.Results, entity.EventResult{
			Event:  event,
			Record: record,
			Err:    err,
		})
	}

	return result
}

func (uc *PhotoUseCase) processWithTimeout(ctx context.Context, event entity.UploadEvent) (*entity.PhotoRecord, error) {
	if uc.eventTimeout <= 0 {
		return uc.Process(ctx, event)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.eventTimeout)
	defer cancel()

	return uc.Process(ctx, event)
}
