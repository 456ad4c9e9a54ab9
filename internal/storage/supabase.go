package storage

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage stores images in a Supabase Storage bucket.
type SupabaseStorage struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStorage(client *storage_go.Client, bucket string) *SupabaseStorage {
	return &SupabaseStorage{client: client, bucket: bucket}
}

func (s *SupabaseStorage) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var opts storage_go.FileOptions
	if contentType != "" {
		opts.ContentType = &contentType
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, body, opts); err != nil {
		return fmt.Errorf("failed to upload to supabase storage: %w", err)
	}
	return nil
}

func (s *SupabaseStorage) PublicURL(_ context.Context, objectPath string) (string, error) {
	resp := s.client.GetPublicUrl(s.bucket, objectPath)
	if resp.SignedURL == "" {
		return "", fmt.Errorf("no public url for %s", objectPath)
	}
	return resp.SignedURL, nil
}
