package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Pipeline/internal/repo"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/readcache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	KeyPrefix     = "photos/"
	ThumbnailsDir = "thumbnails/"

	WebImageSize  = 1080
	ThumbnailSize = 300

	OutputExt         = "jpg"
	OutputContentType = "image/jpeg"

	_defaultBucket        = "000-photos"
	_defaultMaxSourceSize = 50 << 20
	_defaultEventTimeout  = 30 * time.Second

	_tracerName = "photo-pipeline/usecase/photo"
)

// EventError ties a failure to the source key of the event that caused it.
type EventError struct {
	SourceKey string
	Err       error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("photo %q: %v", e.SourceKey, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

type PhotoUseCase struct {
	source   repo.SourceRepo
	blobs    repo.BlobRepo
	records  repo.PhotoRecordRepo
	explorer infrastructure.MetadataExplorer
	resizer  infrastructure.Resizer
	keys     infrastructure.KeyDeriver
	metrics  infrastructure.Metrics
	sender   infrastructure.EventsSender

	tracer trace.Tracer
	logger logger.Interface

	bucket        string
	webSize       int
	thumbnailSize int
	maxSourceSize int64
	eventTimeout  time.Duration
	clock         func() time.Time
}

func New(
	source repo.SourceRepo,
	blobs repo.BlobRepo,
	records repo.PhotoRecordRepo,
	explorer infrastructure.MetadataExplorer,
	resizer infrastructure.Resizer,
	keys infrastructure.KeyDeriver,
	m infrastructure.Metrics,
	l logger.Interface,
	opts ...Option,
) *PhotoUseCase {
	uc := &PhotoUseCase{
		source:        source,
		blobs:         blobs,
		records:       records,
		explorer:      explorer,
		resizer:       resizer,
		keys:          keys,
		metrics:       m,
		tracer:        noop.NewTracerProvider().Tracer(_tracerName),
		logger:        l,
		bucket:        _defaultBucket,
		webSize:       WebImageSize,
		thumbnailSize: ThumbnailSize,
		maxSourceSize: _defaultMaxSourceSize,
		eventTimeout:  _defaultEventTimeout,
		clock:         time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Process runs the whole pipeline for one upload: read the original, explore
// its metadata, derive the keys, write both derivatives and the record.
// Failures come back as *EventError.
func (uc *PhotoUseCase) Process(ctx context.Context, event entity.UploadEvent) (*entity.PhotoRecord, error) {
	start := time.Now()

	ctx, span := uc.tracer.Start(ctx, "photo.Process", trace.WithAttributes(
		attribute.String("photo.bucket", event.Bucket),
		attribute.String("photo.source_key", event.SourceKey),
		attribute.String("photo.user_id", event.UserID),
	))
	defer span.End()

	record, err := uc.process(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.ObserveEvent(entity.Failed, time.Since(start))

		return nil, &EventError{SourceKey: event.SourceKey, Err: err}
	}

	span.SetAttributes(attribute.String("photo.photo_key", record.PhotoKey))
	uc.metrics.ObserveEvent(entity.Processed, time.Since(start))

	uc.publish(ctx, record)

	return record, nil
}

func (uc *PhotoUseCase) process(ctx context.Context, event entity.UploadEvent) (*entity.PhotoRecord, error) {
	l := uc.logger.With("source_key", event.SourceKey, "user_id", event.UserID)

	// 1. читаем оригинал целиком, дальше работаем с курсорами по буферу
	buf, err := uc.download(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.download: %w", err)
	}

	// 2. метаданные
	md := uc.explore(ctx, buf)

	// 3. время съемки или текущее время
	taken, fallback := resolveTimestamp(md, uc.clock)
	if reason, ok := fallback.Get(); ok {
		uc.metrics.MetadataFallback(reason)
		l.Debug("PhotoUseCase - Process - timestamp fallback: %s", reason)
	}

	// 4. ключи
	base := uc.keys.Derive(taken, OutputExt)
	photoKey, thumbnailKey := photoKeys(event.UserID, base)

	// 5. обе версии готовим до первой записи
	web, err := uc.resize(ctx, buf, uc.webSize, "web")
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.resize web: %w", err)
	}

	thumbnail, err := uc.resize(ctx, buf, uc.thumbnailSize, "thumbnail")
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.resize thumbnail: %w", err)
	}

	// 6. загружаем в хранилище
	err = uc.upload(ctx, photoKey, web, "web")
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.upload web: %w", err)
	}

	err = uc.upload(ctx, thumbnailKey, thumbnail, "thumbnail")
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.upload thumbnail: %w", err)
	}

	// 7-8. запись метаданных
	record := assembleRecord(event, uc.bucket, taken, photoKey, thumbnailKey, md)

	err = uc.putRecord(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Process - uc.putRecord: %w", err)
	}

	l.Info("PhotoUseCase - Process - stored %s", photoKey)

	return record, nil
}

func (uc *PhotoUseCase) download(ctx context.Context, event entity.UploadEvent) (*readcache.Buffer, error) {
	ctx, span := uc.tracer.Start(ctx, "photo.Download")
	defer span.End()

	rc, err := uc.source.Download(ctx, event.Bucket, event.SourceKey)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("uc.source.Download: %w", err)
	}
	defer rc.Close()

	buf, err := readcache.Materialize(rc, uc.maxSourceSize)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("readcache.Materialize: %w", err)
	}

	span.SetAttributes(attribute.Int64("photo.source_bytes", buf.Len()))

	return buf, nil
}

func (uc *PhotoUseCase) explore(ctx context.Context, buf *readcache.Buffer) optional.Value[entity.ImageMetadata] {
	_, span := uc.tracer.Start(ctx, "photo.Explore")
	defer span.End()

	md := uc.explorer.Explore(buf.NewReader())
	span.SetAttributes(attribute.Bool("photo.metadata_present", md.IsPresent()))

	return md
}

func (uc *PhotoUseCase) resize(ctx context.Context, buf *readcache.Buffer, size int, variant string) (*entity.DerivativeResult, error) {
	ctx, span := uc.tracer.Start(ctx, "photo.Resize", trace.WithAttributes(
		attribute.String("photo.variant", variant),
		attribute.Int("photo.size", size),
	))
	defer span.End()

	res, err := uc.resizer.Resize(ctx, buf.NewReader(), size)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("uc.resizer.Resize: %w", err)
	}

	return res, nil
}

func (uc *PhotoUseCase) upload(ctx context.Context, key string, d *entity.DerivativeResult, variant string) error {
	ctx, span := uc.tracer.Start(ctx, "photo.Upload", trace.WithAttributes(
		attribute.String("photo.key", key),
		attribute.Int64("photo.bytes", d.Size),
	))
	defer span.End()

	err := uc.blobs.Upload(ctx, key, d.Reader(), OutputContentType, d.Size)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("uc.blobs.Upload: %w", err)
	}

	uc.metrics.ObserveDerivative(variant, d.Size)

	return nil
}

func (uc *PhotoUseCase) putRecord(ctx context.Context, record *entity.PhotoRecord) error {
	ctx, span := uc.tracer.Start(ctx, "photo.PutRecord")
	defer span.End()

	err := uc.records.Put(ctx, record)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("uc.records.Put: %w", err)
	}

	return nil
}

// publish is best effort: the record is already stored.
func (uc *PhotoUseCase) publish(ctx context.Context, record *entity.PhotoRecord) {
	if uc.sender == nil {
		return
	}

	err := uc.sender.SendProcessed(ctx, entity.NewPhotoProcessedEvent(record, uc.clock().UTC()))
	if err != nil {
		uc.logger.Error(err, "PhotoUseCase - publish - uc.sender.SendProcessed")
	}
}

func photoKeys(userID, base string) (string, string) {
	userPrefix := KeyPrefix + userID + "/"
	return userPrefix + base, userPrefix + ThumbnailsDir + base
}
