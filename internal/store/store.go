// Package store reaches the remote recipes relation.
package store

import (
	"context"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
)

// TableName is the relation holding the catalog.
const TableName = "recipes"

// RecordStore is the recipes relation of the backend.
type RecordStore interface {
	// List returns every record ordered by name ascending, as ordered by the store.
	List(ctx context.Context) ([]model.Recipe, error)
	// Upsert inserts the record or fully overwrites the row with the same id,
	// returning the written row(s).
	Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error)
	// Delete removes the row with the given id. A missing id is not an error.
	Delete(ctx context.Context, id string) error
}
