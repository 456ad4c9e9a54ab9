package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
)

// GormStore keeps the catalog in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a RecordStore over an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (s *GormStore) Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error) {
	if recipe.ID == "" {
		return nil, fmt.Errorf("upsert recipe: missing id")
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&recipe).Error
	if err != nil {
		return nil, fmt.Errorf("upsert recipe %s: %w", recipe.ID, err)
	}

	var written model.Recipe
	if err := db.First(&written, "id = ?", recipe.ID).Error; err != nil {
		return nil, fmt.Errorf("read back recipe %s: %w", recipe.ID, err)
	}
	return []model.Recipe{written}, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return nil
}
