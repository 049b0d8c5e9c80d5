package persistent

import (
	"context"
	"fmt"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/minioclient"
	"github.com/minio/minio-go/v7"
)

type MinioPhotoRepo struct {
	*minioclient.MinioClient
	bucket string
}

func NewMinioPhotoRepo(mc *minioclient.MinioClient, bucket string) *MinioPhotoRepo {
	return &MinioPhotoRepo{mc, bucket}
}

func (r *MinioPhotoRepo) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	_, err := r.Client.PutObject(ctx, r.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("MinioPhotoRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

// Download stats the object first: minio's GetObject is lazy and would only
// report a missing key on the first Read.
func (r *MinioPhotoRepo) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := r.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("MinioPhotoRepo - Download - r.Client.GetObject: %w", err)
	}

	_, err = obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("MinioPhotoRepo - Download - obj.Stat: %w", err)
	}

	return obj, nil
}
