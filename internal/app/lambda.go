package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/config"
	lambdactrl "github.com/andreyxaxa/Photo-Pipeline/internal/controller/lambda"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/aws/aws-lambda-go/lambda"
)

// RunLambda serves S3 triggers until the Lambda runtime stops the process.
func RunLambda(cfg *config.Config) {
	ctx := context.Background()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Pipeline
	pipeline, err := NewPipeline(ctx, cfg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunLambda - NewPipeline: %w", err))
	}

	h := lambdactrl.New(pipeline.Photos, pipeline.Metrics, l)

	lambda.Start(func(ctx context.Context, payload json.RawMessage) error {
		err := h.HandlePayload(ctx, payload)

		if flushErr := pipeline.Flush(ctx); flushErr != nil {
			l.Error(flushErr, "app - RunLambda - pipeline.Flush")
		}
		_ = l.Sync()

		return err
	})
}
