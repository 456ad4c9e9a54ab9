// Package storage puts recipe images in a public bucket and resolves their URLs.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectStorage is a bucket of publicly readable objects.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error
	PublicURL(ctx context.Context, objectPath string) (string, error)
}

// ObjectPath returns <prefix>/<random>.<ext> where ext is taken from the
// original file name. A name without an extension yields no trailing dot.
func ObjectPath(prefix, fileName string) string {
	name := uuid.NewString()
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		name += "." + fileName[i+1:]
	}
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func joinURL(base, objectPath string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(objectPath, "/")
}
