package infrastructure

import (
	"context"
	"io"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	"github.com/segmentio/kafka-go"
)

type (
	KeyDeriver interface {
		Derive(t time.Time, ext string) string
	}

	MetadataExplorer interface {
		Explore(r io.Reader) optional.Value[entity.ImageMetadata]
	}

	Resizer interface {
		Resize(ctx context.Context, r io.Reader, size int) (*entity.DerivativeResult, error)
	}

	EventsReceiver interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	EventsSender interface {
		SendProcessed(ctx context.Context, event *entity.PhotoProcessedEvent) error
		Close() error
	}

	Metrics interface {
		ObserveEvent(status entity.Status, d time.Duration)
		MetadataFallback(reason entity.FallbackReason)
		ObserveDerivative(variant string, size int64)
	}
)
