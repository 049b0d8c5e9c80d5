package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/andreyxaxa/Photo-Pipeline/config"
	kafkactrl "github.com/andreyxaxa/Photo-Pipeline/internal/controller/kafka"
	"github.com/andreyxaxa/Photo-Pipeline/internal/controller/restapi"
	"github.com/andreyxaxa/Photo-Pipeline/internal/controller/restapi/v1/validate"
	infrakafka "github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/httpserver"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)
	defer func() { _ = l.Sync() }()

	// Pipeline
	pipeline, err := NewPipeline(ctx, cfg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - NewPipeline: %w", err))
	}

	// Kafka as Controller
	var kafkaController *kafkactrl.KafkaController

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic,
			consumer.MaxWait(cfg.Kafka.MaxWait),
		)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
		}

		workers := cfg.KafkaController.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}

		kafkaController = kafkactrl.New(
			pipeline.Photos,
			infrakafka.NewNotificationConsumer(kafkaConsumer),
			pipeline.Metrics,
			l,
			cfg.KafkaController.CommitTimeout,
			workers,
		)
	}

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(validate.MaxBodySize),
		httpserver.DrainDelay(cfg.HTTP.DrainDelay),
	)
	restapi.NewRouter(httpServer.App, pipeline.Photos, pipeline.Metrics, pipeline.Registry, httpServer.Ready, l)

	// Start Components
	if kafkaController != nil {
		err = kafkaController.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
		}
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	if kafkaController != nil {
		kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
		defer kcShutdownCancel()
		err = kafkaController.Shutdown(kcShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
		}
	}

	err = pipeline.Close(ctx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - pipeline.Close: %w", err))
	}
}
