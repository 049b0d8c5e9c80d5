package v1

import (
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
)

type V1 struct {
	photos  usecase.PhotoUseCase
	metrics infrastructure.Metrics
	logger  logger.Interface
}
