package dynamo

import "time"

type Option func(d *Dynamo)

func ConnAttempts(attempts int) Option {
	return func(d *Dynamo) {
		d.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(d *Dynamo) {
		d.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(d *Dynamo) {
		if region != "" {
			d.region = region
		}
	}
}

// Endpoint targets DynamoDB Local or LocalStack.
func Endpoint(endpoint string) Option {
	return func(d *Dynamo) {
		d.endpoint = endpoint
	}
}

func StaticCredentials(accessKey, secretKey string) Option {
	return func(d *Dynamo) {
		d.accessKey = accessKey
		d.secretKey = secretKey
	}
}

func Table(table string) Option {
	return func(d *Dynamo) {
		d.table = table
	}
}
