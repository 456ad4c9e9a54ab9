package store

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
)

// SupabaseStore talks to the recipes relation through Supabase's PostgREST API.
// The PostgREST client takes no context; calls settle or fail on their own.
type SupabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore wraps an explicitly constructed Supabase client
func NewSupabaseStore(client *supabase.Client) *SupabaseStore {
	return &SupabaseStore{client: client}
}

func (s *SupabaseStore) List(ctx context.Context) ([]model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	_, err := s.client.From(TableName).
		Select("*", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&recipes)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (s *SupabaseStore) Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var written []model.Recipe
	_, err := s.client.From(TableName).
		Upsert([]recipeRow{newRecipeRow(recipe)}, "id", "representation", "").
		ExecuteTo(&written)
	if err != nil {
		return nil, fmt.Errorf("upsert recipe %s: %w", recipe.ID, err)
	}
	return written, nil
}

// recipeRow is the PostgREST payload for a recipe. PostgREST merges
// duplicates column by column, so every column is always sent: an empty
// string or a null rating must overwrite what the row held before.
type recipeRow struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	Alias                string               `json:"alias"`
	Region               string               `json:"region"`
	Category             string               `json:"category"`
	Difficulty           model.Difficulty     `json:"difficulty"`
	PrepTime             string               `json:"prepTime"`
	CookTime             string               `json:"cookTime"`
	Image                string               `json:"image"`
	Ingredients          model.IngredientList `json:"ingredients"`
	TechniqueTitle       string               `json:"techniqueTitle"`
	TechniqueDescription string               `json:"techniqueDescription"`
	Description          string               `json:"description"`
	Steps                model.StringList     `json:"steps"`
	DiasporaSubstitutes  string               `json:"diasporaSubstitutes"`
	SuggestedSides       model.StringList     `json:"suggestedSides"`
	Benefits             string               `json:"benefits"`
	PedagogicalNote      string               `json:"pedagogicalNote"`
	Type                 string               `json:"type"`
	Base                 string               `json:"base"`
	Style                string               `json:"style"`
	OrigineHumaine       string               `json:"origine_humaine"`
	VideoURL             string               `json:"videoUrl"`
	Rating               *float64             `json:"rating"`
}

func newRecipeRow(r model.Recipe) recipeRow {
	row := recipeRow(r)
	if row.Ingredients == nil {
		row.Ingredients = model.IngredientList{}
	}
	if row.Steps == nil {
		row.Steps = model.StringList{}
	}
	if row.SuggestedSides == nil {
		row.SuggestedSides = model.StringList{}
	}
	return row
}

func (s *SupabaseStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(TableName).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return nil
}
