package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/afrocuisto-cms/backend/config"
)

// S3API is the part of the S3 client used for images.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage stores images in an S3 (or S3 compatible) bucket
type S3Storage struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

// NewS3Storage wraps a configured S3 client. publicBaseURL may be empty, in
// which case virtual-hosted AWS URLs are produced.
func NewS3Storage(s3cfg *config.S3Config, publicBaseURL string) *S3Storage {
	return &S3Storage{client: s3cfg.Client, bucket: s3cfg.BucketName, publicBaseURL: publicBaseURL}
}

func (s *S3Storage) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3Storage) PublicURL(_ context.Context, objectPath string) (string, error) {
	if s.publicBaseURL != "" {
		return joinURL(s.publicBaseURL, objectPath), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, objectPath), nil
}
