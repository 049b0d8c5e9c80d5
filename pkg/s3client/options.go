package s3client

import "time"

type Option func(c *S3Client)

func ConnAttempts(attempts int) Option {
	return func(c *S3Client) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *S3Client) {
		c.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(c *S3Client) {
		if region != "" {
			c.region = region
		}
	}
}

// Endpoint points the client at an S3 compatible store (Garage, MinIO,
// LocalStack). Empty keeps the AWS endpoint resolution.
func Endpoint(endpoint string) Option {
	return func(c *S3Client) {
		c.endpoint = endpoint
	}
}

func StaticCredentials(accessKey, secretKey string) Option {
	return func(c *S3Client) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

func UsePathStyle(use bool) Option {
	return func(c *S3Client) {
		c.usePathStyle = use
	}
}

// SkipPing disables the ListBuckets probe, for roles that may not list
// buckets (Lambda execution roles usually cannot).
func SkipPing(skip bool) Option {
	return func(c *S3Client) {
		c.skipPing = skip
	}
}
