package v1

import (
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewNotificationRoutes(apiV1Group fiber.Router, photos usecase.PhotoUseCase, m infrastructure.Metrics, l logger.Interface) {
	r := &V1{photos: photos, metrics: m, logger: l}

	{
		apiV1Group.Post("/notifications", r.handleNotification)
	}
}
