package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andreyxaxa/Photo-Pipeline/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Photo-Pipeline/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Photo-Pipeline/internal/dto"
	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// handleNotification accepts a bucket notification webhook and processes
// its uploads synchronously. 200 when every upload succeeded, 422 when at
// least one failed or was rejected, 400 for a malformed document.
func (r *V1) handleNotification(ctx *fiber.Ctx) error {
	body := ctx.Body()

	// 1. валидация тела
	if len(body) == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "empty body")
	}

	batch, err := dto.Decode(body)
	if err != nil {
		if errors.Is(err, errs.ErrNoRecords) {
			return errorResponse(ctx, http.StatusBadRequest, "notification has no records")
		}

		return errorResponse(ctx, http.StatusBadRequest, "invalid notification document")
	}

	if batch.Len() > validate.MaxRecords {
		return errorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("notification cant carry more than %d records", validate.MaxRecords))
	}

	// 2. учёт пропущенных и отклонённых записей
	for range batch.Skipped {
		r.metrics.ObserveEvent(entity.Skipped, 0)
	}

	for _, rejected := range batch.Rejected {
		r.metrics.ObserveEvent(entity.Rejected, 0)
		r.logger.Error(rejected.Err, "restapi - v1 - handleNotification - reject %q", rejected.Event.SourceKey)
	}

	// 3. обработка
	res := batch.Outcome(r.photos.ProcessBatch(ctx.UserContext(), batch.Created))
	if res.Failed() > 0 {
		r.logger.Error(res.Err(), "restapi - v1 - handleNotification - r.photos.ProcessBatch")

		return ctx.Status(http.StatusUnprocessableEntity).JSON(response.NewNotification(res, batch.Skipped))
	}

	return ctx.Status(http.StatusOK).JSON(response.NewNotification(res, batch.Skipped))
}
