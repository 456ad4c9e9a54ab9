package model

import (
	"github.com/google/uuid"
)

// Ingredient is one line of a recipe's ingredient list. Both fields are free text.
type Ingredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// Recipe represents a recipe record of the catalog. Column names follow the
// remote recipes table so the same struct serves gorm and PostgREST.
type Recipe struct {
	ID                   string         `gorm:"column:id;primaryKey;type:text" json:"id"`
	Name                 string         `gorm:"column:name;not null;index" json:"name"`
	Alias                string         `gorm:"column:alias" json:"alias,omitempty"`
	Region               string         `gorm:"column:region" json:"region"`
	Category             string         `gorm:"column:category" json:"category"`
	Difficulty           Difficulty     `gorm:"column:difficulty" json:"difficulty"`
	PrepTime             string         `gorm:"column:prepTime" json:"prepTime"`
	CookTime             string         `gorm:"column:cookTime" json:"cookTime"`
	Image                string         `gorm:"column:image" json:"image"`
	Ingredients          IngredientList `gorm:"column:ingredients;type:jsonb" json:"ingredients"`
	TechniqueTitle       string         `gorm:"column:techniqueTitle" json:"techniqueTitle,omitempty"`
	TechniqueDescription string         `gorm:"column:techniqueDescription" json:"techniqueDescription,omitempty"`
	Description          string         `gorm:"column:description" json:"description,omitempty"`
	Steps                StringList     `gorm:"column:steps;type:jsonb" json:"steps"`
	DiasporaSubstitutes  string         `gorm:"column:diasporaSubstitutes" json:"diasporaSubstitutes,omitempty"`
	SuggestedSides       StringList     `gorm:"column:suggestedSides;type:jsonb" json:"suggestedSides,omitempty"`
	Benefits             string         `gorm:"column:benefits" json:"benefits,omitempty"`
	PedagogicalNote      string         `gorm:"column:pedagogicalNote" json:"pedagogicalNote,omitempty"`
	Type                 string         `gorm:"column:type" json:"type,omitempty"`
	Base                 string         `gorm:"column:base" json:"base,omitempty"`
	Style                string         `gorm:"column:style" json:"style,omitempty"`
	OrigineHumaine       string         `gorm:"column:origine_humaine" json:"origine_humaine,omitempty"`
	VideoURL             string         `gorm:"column:videoUrl" json:"videoUrl,omitempty"`
	Rating               *float64       `gorm:"column:rating" json:"rating,omitempty"`
}

// TableName pins the relation name regardless of gorm's naming strategy.
func (Recipe) TableName() string {
	return "recipes"
}

// NewDraft synthesizes the record the editor starts from when creating a new dish.
func NewDraft() Recipe {
	return Recipe{
		ID:          uuid.NewString(),
		Name:        "",
		Region:      DefaultRegion,
		Category:    DefaultCategory,
		Difficulty:  DefaultDifficulty,
		PrepTime:    DefaultPrepTime,
		CookTime:    DefaultCookTime,
		Image:       "",
		Ingredients: IngredientList{},
		Steps:       StringList{},
		Description: "",
	}
}

// Clone returns a deep copy sharing no memory with r.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append(IngredientList{}, r.Ingredients...)
	}
	if r.Steps != nil {
		out.Steps = append(StringList{}, r.Steps...)
	}
	if r.SuggestedSides != nil {
		out.SuggestedSides = append(StringList{}, r.SuggestedSides...)
	}
	if r.Rating != nil {
		rating := *r.Rating
		out.Rating = &rating
	}
	return out
}

// CloneAll deep copies a record set, preserving order.
func CloneAll(recipes []Recipe) []Recipe {
	if recipes == nil {
		return nil
	}
	out := make([]Recipe, len(recipes))
	for i := range recipes {
		out[i] = recipes[i].Clone()
	}
	return out
}
