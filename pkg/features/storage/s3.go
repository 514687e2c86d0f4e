package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the slice of the S3 client this backend needs. *s3.Client
// satisfies it; tests can substitute a fake.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Backend persists each key as an object in an S3 bucket.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	backend := storage.NewS3Backend(s3.NewFromConfig(cfg), "my-bucket", "state/")
type S3Backend struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Backend creates a backend storing objects under prefix in bucket.
func NewS3Backend(client S3API, bucket, prefix string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, prefix: prefix}
}

// GetValue returns the stored bytes for key, or (nil, nil) when absent.
func (s *S3Backend) GetValue(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 read failed for %q: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read failed for %q: %w", key, err)
	}
	return data, nil
}

// SetValue stores data under key, removing the object when data is nil.
func (s *S3Backend) SetValue(ctx context.Context, key string, data []byte) error {
	if data == nil {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.prefix + key),
		})
		if err != nil {
			return fmt.Errorf("s3 delete failed for %q: %w", key, err)
		}
		return nil
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed for %q: %w", key, err)
	}
	return nil
}

var _ Backend = (*S3Backend)(nil)
