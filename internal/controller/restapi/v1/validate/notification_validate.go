package validate

const (
	// S3 delivers one record per notification, MinIO and Garage may batch.
	MaxRecords int = 100

	MaxBodySize int = 1 * 1024 * 1024
)
