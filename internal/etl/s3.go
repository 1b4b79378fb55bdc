package etl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

// S3PutAPI is the part of the S3 client the loader needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the S3 client built by NewS3Client.
type S3Options struct {
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewS3Client builds an S3 client from the default AWS config chain, with
// optional static credentials and a custom endpoint (MinIO, LocalStack).
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var configOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if opts.AccessKeyID != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Loader writes the whole batch as one newline-delimited JSON object.
type S3Loader struct {
	Client S3PutAPI
	Bucket string
	Prefix string
	// Key names the object; set per run by the pipeline. Defaults to a timestamp.
	Key string
	Log *logger.Logger
}

func NewS3Loader(client S3PutAPI, bucket, prefix string, log *logger.Logger) *S3Loader {
	return &S3Loader{Client: client, Bucket: bucket, Prefix: prefix, Log: log}
}

// SetRunID names the next object after the run.
func (l *S3Loader) SetRunID(runID string) {
	l.Key = runID
}

func (l *S3Loader) objectKey() string {
	name := l.Key
	if name == "" {
		name = time.Now().UTC().Format("20060102T150405Z")
	}
	return path.Join(l.Prefix, name+".jsonl")
}

func (l *S3Loader) Load(batch models.Batch, destination string) (int, error) {
	log := orDefault(l.Log)
	key := l.objectKey()
	log.Infof("Loading data to %s (s3://%s/%s)...", destination, l.Bucket, key)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range batch {
		if err := enc.Encode(rec); err != nil {
			return 0, fmt.Errorf("failed to marshal record to JSON: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := l.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(l.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to put object s3://%s/%s: %w", l.Bucket, key, err)
	}

	log.Infof("Successfully loaded %d records to %s.", len(batch), destination)
	return len(batch), nil
}

// SetLogger swaps the logger and returns the previous one.
func (l *S3Loader) SetLogger(next *logger.Logger) *logger.Logger {
	prev := l.Log
	l.Log = next
	return prev
}
