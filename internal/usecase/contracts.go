package usecase

import (
	"context"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
)

type (
	PhotoUseCase interface {
		Process(ctx context.Context, event entity.UploadEvent) (*entity.PhotoRecord, error)
		ProcessBatch(ctx context.Context, events []entity.UploadEvent) *entity.BatchResult
	}
)
