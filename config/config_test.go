package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "000-photos", cfg.Pipeline.Bucket)
	assert.Equal(t, "000-photos", cfg.Pipeline.Table)
	assert.Equal(t, 1080, cfg.Pipeline.WebSize)
	assert.Equal(t, 300, cfg.Pipeline.ThumbnailSize)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.EventTimeout)
	assert.Equal(t, int64(50<<20), cfg.Pipeline.MaxSourceSize)
	assert.Equal(t, int64(100_000_000), cfg.Pipeline.MaxPixels)
	assert.Equal(t, BlobBackendS3, cfg.Backend.Blob)
	assert.Equal(t, RecordBackendDynamoDB, cfg.Backend.Record)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Zero(t, cfg.HTTP.DrainDelay)
}

func TestOverrides(t *testing.T) {
	t.Setenv("PHOTOS_BUCKET", "dest")
	t.Setenv("PIPELINE_EVENT_TIMEOUT", "5s")
	t.Setenv("BLOB_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("RECORD_BACKEND", "postgres")
	t.Setenv("PG_URL", "postgres://u:p@localhost:5432/photos")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("HTTP_DRAIN_DELAY", "2s")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "dest", cfg.Pipeline.Bucket)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.EventTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.HTTP.DrainDelay)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"unknown blob backend", map[string]string{"BLOB_BACKEND": "gcs"}, errs.ErrUnsupportedBackend},
		{"unknown record backend", map[string]string{"RECORD_BACKEND": "mongo"}, errs.ErrUnsupportedBackend},
		{"zero thumbnail", map[string]string{"PIPELINE_THUMBNAIL_SIZE": "0"}, errs.ErrInvalidSize},
		{"zero pixel limit", map[string]string{"PIPELINE_MAX_PIXELS": "0"}, errs.ErrInvalidSize},
		{"minio without endpoint", map[string]string{"BLOB_BACKEND": "minio"}, nil},
		{"postgres without url", map[string]string{"RECORD_BACKEND": "postgres"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := New()
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PHOTOS_TABLE=from-file\nPHOTOS_BUCKET=from-file\n"), 0o600))

	// set explicitly, must win over the file
	t.Setenv("PHOTOS_BUCKET", "from-env")
	// registered with t so the value loaded from the file is cleaned up
	t.Setenv("PHOTOS_TABLE", "")
	require.NoError(t, os.Unsetenv("PHOTOS_TABLE"))

	require.NoError(t, LoadEnvFile(path))

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Pipeline.Bucket)
	assert.Equal(t, "from-file", cfg.Pipeline.Table)
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
