package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/config"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/exif"
	infrakafka "github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/keygen"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/metrics"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-Pipeline/internal/repo"
	"github.com/andreyxaxa/Photo-Pipeline/internal/repo/persistent"
	"github.com/andreyxaxa/Photo-Pipeline/internal/usecase/photo"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/dynamo"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/kafka/producer"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/minioclient"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/postgres"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/s3client"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/tracing"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type objectRepo interface {
	repo.SourceRepo
	repo.BlobRepo
}

// Pipeline is the photo use case with everything it depends on. Shared by
// the long running service and the Lambda entry point.
type Pipeline struct {
	Photos   *photo.PhotoUseCase
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	tracing *tracing.Tracing
	closers []func() error
}

var newTracing = tracing.New

func NewPipeline(ctx context.Context, cfg *config.Config, l logger.Interface) (_ *Pipeline, err error) {
	p := &Pipeline{}

	// всё, что успели поднять, закрываем при любой ошибке ниже
	defer func() {
		if err != nil {
			_ = p.Close(ctx)
		}
	}()

	// Metrics
	p.Registry = prometheus.NewRegistry()
	p.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	p.Metrics = metrics.New(p.Registry)

	// Tracing
	tr, err := newTracing(cfg.Tracing.Enabled)
	if err != nil {
		return nil, fmt.Errorf("app - NewPipeline - tracing.New: %w", err)
	}
	p.tracing = tr

	// Repository

	// blob storage
	objects, err := newObjectRepo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app - NewPipeline - newObjectRepo: %w", err)
	}

	// records
	records, err := p.newRecordRepo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app - NewPipeline - newRecordRepo: %w", err)
	}

	opts := []photo.Option{
		photo.Bucket(cfg.Pipeline.Bucket),
		photo.WebSize(cfg.Pipeline.WebSize),
		photo.ThumbSize(cfg.Pipeline.ThumbnailSize),
		photo.MaxSourceSize(cfg.Pipeline.MaxSourceSize),
		photo.EventTimeout(cfg.Pipeline.EventTimeout),
		photo.TracerProvider(tr.Provider()),
	}

	// Kafka Producer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.ProcessedTopic != "" {
		kp, err := producer.New(ctx, cfg.Kafka.Brokers,
			producer.AllowAutoTopicCreation(cfg.Kafka.AutoCreate),
		)
		if err != nil {
			return nil, fmt.Errorf("app - NewPipeline - producer.New: %w", err)
		}

		sender := infrakafka.NewEventProducer(kp, cfg.Kafka.ProcessedTopic)
		p.closers = append(p.closers, sender.Close)
		opts = append(opts, photo.Publisher(sender))
	}

	// Use-Case
	p.Photos = photo.New(
		objects,
		objects,
		records,
		exif.New(),
		processor.New(
			processor.JPEGQuality(cfg.Pipeline.JPEGQuality),
			processor.MaxPixels(cfg.Pipeline.MaxPixels),
		),
		keygen.New(),
		p.Metrics,
		l,
		opts...,
	)

	return p, nil
}

func newObjectRepo(ctx context.Context, cfg *config.Config) (objectRepo, error) {
	switch cfg.Backend.Blob {
	case config.BlobBackendS3:
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
		defer s3Cancel()

		s3c, err := s3client.New(s3Ctx,
			s3client.Endpoint(cfg.S3.Endpoint),
			s3client.Region(cfg.S3.Region),
			s3client.StaticCredentials(cfg.S3.AccessKey, cfg.S3.SecretKey),
			s3client.UsePathStyle(cfg.S3.UsePathStyle),
			s3client.SkipPing(cfg.S3.SkipPing),
		)
		if err != nil {
			return nil, fmt.Errorf("s3client.New: %w", err)
		}

		return persistent.NewS3PhotoRepo(s3c, cfg.Pipeline.Bucket), nil

	case config.BlobBackendMinIO:
		mc, err := minioclient.New(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			minioclient.Region(cfg.MinIO.Region),
			minioclient.UseSSL(cfg.MinIO.UseSSL),
			minioclient.EnsureBuckets(cfg.Pipeline.Bucket),
		)
		if err != nil {
			return nil, fmt.Errorf("minioclient.New: %w", err)
		}

		return persistent.NewMinioPhotoRepo(mc, cfg.Pipeline.Bucket), nil
	}

	return nil, fmt.Errorf("BLOB_BACKEND=%q: %w", cfg.Backend.Blob, errs.ErrUnsupportedBackend)
}

func (p *Pipeline) newRecordRepo(ctx context.Context, cfg *config.Config) (repo.PhotoRecordRepo, error) {
	switch cfg.Backend.Record {
	case config.RecordBackendDynamoDB:
		opts := []dynamo.Option{
			dynamo.Region(cfg.Dynamo.Region),
			dynamo.Endpoint(cfg.Dynamo.Endpoint),
			dynamo.StaticCredentials(cfg.Dynamo.AccessKey, cfg.Dynamo.SecretKey),
		}
		if !cfg.Dynamo.SkipPing {
			opts = append(opts, dynamo.Table(cfg.Pipeline.Table))
		}

		d, err := dynamo.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("dynamo.New: %w", err)
		}

		return persistent.NewDynamoPhotoRecordRepo(d, cfg.Pipeline.Table), nil

	case config.RecordBackendPostgres:
		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			return nil, fmt.Errorf("postgres.New: %w", err)
		}

		p.closers = append(p.closers, func() error {
			pg.Close()
			return nil
		})

		return persistent.NewPostgresPhotoRecordRepo(pg), nil
	}

	return nil, fmt.Errorf("RECORD_BACKEND=%q: %w", cfg.Backend.Record, errs.ErrUnsupportedBackend)
}

func (p *Pipeline) Flush(ctx context.Context) error {
	return p.tracing.ForceFlush(ctx)
}

func (p *Pipeline) Close(ctx context.Context) error {
	var closeErrors []error

	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			closeErrors = append(closeErrors, err)
		}
	}

	if p.tracing != nil {
		if err := p.tracing.Shutdown(ctx); err != nil {
			closeErrors = append(closeErrors, err)
		}
	}

	return errors.Join(closeErrors...)
}
