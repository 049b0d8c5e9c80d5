package repo

import (
	"context"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
)

type (
	// SourceRepo reads the uploaded original from the bucket named by the
	// notification.
	SourceRepo interface {
		Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	}

	// BlobRepo writes derivatives into the destination bucket.
	BlobRepo interface {
		Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) error
	}

	PhotoRecordRepo interface {
		Put(ctx context.Context, record *entity.PhotoRecord) error
	}
)
