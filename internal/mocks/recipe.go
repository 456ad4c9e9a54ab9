package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/storage"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

var (
	_ store.RecordStore     = (*MockRecordStore)(nil)
	_ storage.ObjectStorage = (*MockObjectStorage)(nil)
)

// MockRecordStore is a mock implementation of the recipes relation
type MockRecordStore struct {
	mock.Mock
}

// List mocks the List method
func (m *MockRecordStore) List(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Upsert mocks the Upsert method
func (m *MockRecordStore) Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecordStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of the image bucket
type MockObjectStorage struct {
	mock.Mock
}

// Upload mocks the Upload method
func (m *MockObjectStorage) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	args := m.Called(ctx, objectPath, body, contentType)
	return args.Error(0)
}

// PublicURL mocks the PublicURL method
func (m *MockObjectStorage) PublicURL(ctx context.Context, objectPath string) (string, error) {
	args := m.Called(ctx, objectPath)
	return args.String(0), args.Error(1)
}
