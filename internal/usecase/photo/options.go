package photo

import (
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure"
	"go.opentelemetry.io/otel/trace"
)

type Option func(*PhotoUseCase)

// Bucket sets the destination bucket for derivatives and records.
func Bucket(bucket string) Option {
	return func(uc *PhotoUseCase) {
		uc.bucket = bucket
	}
}

func WebSize(size int) Option {
	return func(uc *PhotoUseCase) {
		uc.webSize = size
	}
}

func ThumbSize(size int) Option {
	return func(uc *PhotoUseCase) {
		uc.thumbnailSize = size
	}
}

// MaxSourceSize caps the bytes read from the original. Zero disables the cap.
func MaxSourceSize(n int64) Option {
	return func(uc *PhotoUseCase) {
		uc.maxSourceSize = n
	}
}

// EventTimeout bounds one event inside ProcessBatch. Zero disables it.
func EventTimeout(d time.Duration) Option {
	return func(uc *PhotoUseCase) {
		uc.eventTimeout = d
	}
}

func Clock(clock func() time.Time) Option {
	return func(uc *PhotoUseCase) {
		uc.clock = clock
	}
}

func Publisher(sender infrastructure.EventsSender) Option {
	return func(uc *PhotoUseCase) {
		uc.sender = sender
	}
}

func TracerProvider(tp trace.TracerProvider) Option {
	return func(uc *PhotoUseCase) {
		uc.tracer = tp.Tracer(_tracerName)
	}
}
