package dynamo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultRegion       = "us-east-1"
)

type Dynamo struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint  string
	region    string
	accessKey string
	secretKey string
	table     string

	Client *dynamodb.Client
}

// New builds a DynamoDB client. When a table is set via Table, New waits
// until DescribeTable succeeds for it.
func New(ctx context.Context, opts ...Option) (*Dynamo, error) {
	d := &Dynamo{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		region:       _defaultRegion,
	}

	for _, opt := range opts {
		opt(d)
	}

	var err error
	for d.connAttempts > 0 {
		err = d.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("DynamoDB is trying to connect, attempts left: %d", d.connAttempts)

		time.Sleep(d.connTimeout)

		d.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("Dynamo - New - connAttempts == 0: %w", err)
	}

	return d, nil
}

func (d *Dynamo) connect(ctx context.Context) error {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(d.region)}
	if d.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(d.accessKey, d.secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("Dynamo - config.LoadDefaultConfig: %w", err)
	}

	d.Client = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if d.endpoint != "" {
			o.BaseEndpoint = aws.String(d.endpoint)
		}
	})

	if d.table == "" {
		return nil
	}

	_, err = d.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	if err != nil {
		return fmt.Errorf("Dynamo - d.Client.DescribeTable: %w", err)
	}

	return nil
}
