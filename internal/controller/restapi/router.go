package restapi

import (
	v1 "github.com/andreyxaxa/Photo-Pipeline/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	app *fiber.App,
	photos usecase.PhotoUseCase,
	m infrastructure.Metrics,
	gatherer prometheus.Gatherer,
	ready func() bool,
	l logger.Interface,
) {
	app.Use(recover.New())

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	app.Get("/readyz", func(ctx *fiber.Ctx) error {
		if !ready() {
			return ctx.SendStatus(fiber.StatusServiceUnavailable)
		}
		return ctx.SendStatus(fiber.StatusOK)
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewNotificationRoutes(apiV1Group, photos, m, l)
	}
}
