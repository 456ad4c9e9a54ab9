package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/pageza/afrocuisto-cms/backend/config"
)

// GCSStorage stores images in a Google Cloud Storage bucket.
type GCSStorage struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewGCSStorage creates the client from the object store configuration.
// A custom endpoint (fake-gcs-server and friends) disables authentication.
func NewGCSStorage(ctx context.Context, cfg config.ObjectStoreConfig) (*GCSStorage, error) {
	var opts []option.ClientOption
	switch {
	case cfg.GCSEndpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.GCSEndpoint), option.WithoutAuthentication())
	case cfg.GCSCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: cfg.Bucket, publicBaseURL: cfg.PublicBaseURL}, nil
}

func (g *GCSStorage) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (g *GCSStorage) PublicURL(_ context.Context, objectPath string) (string, error) {
	if g.publicBaseURL != "" {
		return joinURL(g.publicBaseURL, objectPath), nil
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectPath), nil
}

// Close releases the underlying client.
func (g *GCSStorage) Close() error {
	return g.client.Close()
}
