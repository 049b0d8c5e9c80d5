package minioclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type MinioClient struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint  string
	accessKey string
	secretKey string
	region    string
	useSSL    bool
	buckets   []string

	Client *minio.Client
}

func New(ctx context.Context, endpoint, accessKey, secretKey string, opts ...Option) (*MinioClient, error) {
	mc := &MinioClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		endpoint:     endpoint,
		accessKey:    accessKey,
		secretKey:    secretKey,
	}

	for _, opt := range opts {
		opt(mc)
	}

	client, err := minio.New(mc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(mc.accessKey, mc.secretKey, ""),
		Secure: mc.useSSL,
		Region: mc.region,
	})
	if err != nil {
		return nil, fmt.Errorf("MinioClient - New - minio.New: %w", err)
	}

	mc.Client = client

	for mc.connAttempts > 0 {
		err = mc.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("MinIO is trying to connect, attempts left: %d", mc.connAttempts)

		time.Sleep(mc.connTimeout)

		mc.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("MinioClient - New - connAttempts == 0: %w", err)
	}

	return mc, nil
}

// connect checks the connection and creates missing buckets.
func (m *MinioClient) connect(ctx context.Context) error {
	if len(m.buckets) == 0 {
		_, err := m.Client.ListBuckets(ctx)
		if err != nil {
			return fmt.Errorf("MinioClient - m.Client.ListBuckets: %w", err)
		}

		return nil
	}

	for _, bucket := range m.buckets {
		exists, err := m.Client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("MinioClient - m.Client.BucketExists: %w", err)
		}

		if exists {
			continue
		}

		err = m.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.region})
		if err != nil {
			return fmt.Errorf("MinioClient - m.Client.MakeBucket: %w", err)
		}

		log.Printf("MinIO bucket created: %s", bucket)
	}

	return nil
}
