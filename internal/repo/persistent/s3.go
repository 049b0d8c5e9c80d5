package persistent

import (
	"context"
	"fmt"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/s3client"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PhotoRepo reads originals from any bucket and writes derivatives into
// the configured destination bucket.
type S3PhotoRepo struct {
	*s3client.S3Client
	bucket string
}

func NewS3PhotoRepo(s3c *s3client.S3Client, bucket string) *S3PhotoRepo {
	return &S3PhotoRepo{s3c, bucket}
}

func (r *S3PhotoRepo) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("S3PhotoRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *S3PhotoRepo) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3PhotoRepo - Download - r.Client.GetObject: %w", err)
	}

	return result.Body, nil
}
