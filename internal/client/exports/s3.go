package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/google/uuid"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports to an S3-compatible bucket (AWS, MinIO).
type S3Sink struct {
	api    putObjectAPI
	bucket string
	now    func() time.Time
	newID  func() string
}

func NewS3Sink(ctx context.Context, c S3Config) (*S3Sink, error) {
	if c.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Sink(api, c.Bucket), nil
}

func newS3Sink(api putObjectAPI, bucket string) *S3Sink {
	return &S3Sink{api: api, bucket: bucket, now: time.Now, newID: uuid.NewString}
}

func (s *S3Sink) key(ext string) string {
	d := s.now().UTC()
	return fmt.Sprintf("exports/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), s.newID(), ext)
}

func (s *S3Sink) Write(ctx context.Context, format string, blob *client.Blob) (string, error) {
	key := s.key(extension(format))

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob.Data),
		ContentLength: aws.Int64(int64(len(blob.Data))),
		ContentType:   aws.String(contentType(blob)),
	})
	if err != nil {
		return "", fmt.Errorf("upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
