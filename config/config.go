package config

import (
	"fmt"
	"os"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BlobBackendS3    = "s3"
	BlobBackendMinIO = "minio"

	RecordBackendDynamoDB = "dynamodb"
	RecordBackendPostgres = "postgres"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		Pipeline        Pipeline
		Backend         Backend
		S3              S3
		MinIO           MinIO
		Dynamo          Dynamo
		PG              PG
		Kafka           Kafka
		KafkaController KafkaController
		Tracing         Tracing
	}

	HTTP struct {
		Port           string        `env:"HTTP_PORT" envDefault:"8080"`
		UsePreforkMode bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		DrainDelay     time.Duration `env:"HTTP_DRAIN_DELAY" envDefault:"0s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Pipeline struct {
		Bucket        string        `env:"PHOTOS_BUCKET" envDefault:"000-photos"`
		Table         string        `env:"PHOTOS_TABLE" envDefault:"000-photos"`
		WebSize       int           `env:"PIPELINE_WEB_SIZE" envDefault:"1080"`
		ThumbnailSize int           `env:"PIPELINE_THUMBNAIL_SIZE" envDefault:"300"`
		JPEGQuality   int           `env:"PIPELINE_JPEG_QUALITY" envDefault:"85"`
		EventTimeout  time.Duration `env:"PIPELINE_EVENT_TIMEOUT" envDefault:"30s"` // весь конвейер для одного фото
		MaxSourceSize int64         `env:"PIPELINE_MAX_SOURCE_BYTES" envDefault:"52428800"`
		MaxPixels     int64         `env:"PIPELINE_MAX_PIXELS" envDefault:"100000000"`
	}

	Backend struct {
		Blob   string `env:"BLOB_BACKEND" envDefault:"s3"`
		Record string `env:"RECORD_BACKEND" envDefault:"dynamodb"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"` // пусто - AWS
		Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		UsePathStyle   bool          `env:"S3_USE_PATH_STYLE" envDefault:"false"`
		SkipPing       bool          `env:"S3_SKIP_PING" envDefault:"false"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	MinIO struct {
		Endpoint  string `env:"MINIO_ENDPOINT"`
		Region    string `env:"MINIO_REGION"`
		AccessKey string `env:"MINIO_ACCESS_KEY"`
		SecretKey string `env:"MINIO_SECRET_KEY"`
		UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	}

	Dynamo struct {
		Endpoint  string `env:"DYNAMODB_ENDPOINT"`
		Region    string `env:"DYNAMODB_REGION" envDefault:"us-east-1"`
		AccessKey string `env:"DYNAMODB_ACCESS_KEY"`
		SecretKey string `env:"DYNAMODB_SECRET_KEY"`
		SkipPing  bool   `env:"DYNAMODB_SKIP_PING" envDefault:"false"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX" envDefault:"4"`
		URL     string `env:"PG_URL"`
	}

	Kafka struct {
		Brokers        []string      `env:"KAFKA_BROKERS"` // пусто - без кафки
		GroupID        string        `env:"KAFKA_GROUP_ID" envDefault:"photo-pipeline"`
		Topic          string        `env:"KAFKA_TOPIC" envDefault:"photo.uploaded"`
		ProcessedTopic string        `env:"KAFKA_PROCESSED_TOPIC"` // пусто - события не публикуются
		MaxWait        time.Duration `env:"KAFKA_MAX_WAIT" envDefault:"500ms"`
		AutoCreate     bool          `env:"KAFKA_AUTO_CREATE_TOPICS" envDefault:"false"`
	}

	KafkaController struct {
		CommitTimeout   time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ShutdownTimeout time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"35s"`
		Workers         int           `env:"KAFKA_CONTROLLER_WORKERS" envDefault:"0"` // 0 - runtime.NumCPU()
	}

	Tracing struct {
		Enabled bool `env:"TRACING_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Blob {
	case BlobBackendS3:
	case BlobBackendMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for BLOB_BACKEND=%s", BlobBackendMinIO)
		}
	default:
		return fmt.Errorf("BLOB_BACKEND=%q: %w", c.Backend.Blob, errs.ErrUnsupportedBackend)
	}

	switch c.Backend.Record {
	case RecordBackendDynamoDB:
	case RecordBackendPostgres:
		if c.PG.URL == "" {
			return fmt.Errorf("PG_URL is required for RECORD_BACKEND=%s", RecordBackendPostgres)
		}
	default:
		return fmt.Errorf("RECORD_BACKEND=%q: %w", c.Backend.Record, errs.ErrUnsupportedBackend)
	}

	if c.Pipeline.WebSize <= 0 || c.Pipeline.ThumbnailSize <= 0 || c.Pipeline.MaxPixels <= 0 {
		return fmt.Errorf("PIPELINE_WEB_SIZE, PIPELINE_THUMBNAIL_SIZE and PIPELINE_MAX_PIXELS: %w", errs.ErrInvalidSize)
	}

	return nil
}

// LoadEnvFile loads path into the process environment when the file exists.
// Variables already set win over the file.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	return nil
}
