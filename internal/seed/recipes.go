// Package seed holds a starter catalog of Beninese dishes.
package seed

import (
	"context"
	"fmt"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

// Stable ids so seeding twice overwrites instead of duplicating.
const (
	amiwoID   = "8a1f6a52-2b0e-4c1b-9d33-0d6a1c9a0001"
	gbomaID   = "8a1f6a52-2b0e-4c1b-9d33-0d6a1c9a0002"
	kuliID    = "8a1f6a52-2b0e-4c1b-9d33-0d6a1c9a0003"
	wagashiID = "8a1f6a52-2b0e-4c1b-9d33-0d6a1c9a0004"
	abloID    = "8a1f6a52-2b0e-4c1b-9d33-0d6a1c9a0005"
)

// Catalog returns the starter records.
func Catalog() []model.Recipe {
	return []model.Recipe{
		{
			ID:         amiwoID,
			Name:       "Amiwo",
			Region:     "Sud",
			Category:   "Pâtes et Céréales (Wɔ̌)",
			Difficulty: model.DifficultyMedium,
			PrepTime:   "20 min",
			CookTime:   "40 min",
			Ingredients: model.IngredientList{
				{Item: "Farine de maïs", Amount: "500 g"},
				{Item: "Tomates", Amount: "4"},
				{Item: "Poulet", Amount: "1"},
			},
			Steps: model.StringList{
				"Préparer une sauce tomate avec le poulet.",
				"Verser la farine de maïs en pluie dans la sauce.",
				"Remuer jusqu'à obtenir une pâte rouge et lisse.",
			},
			Description: "Pâte de maïs rouge cuite dans un bouillon de tomate.",
		},
		{
			ID:         gbomaID,
			Name:       "Gboma Dessi",
			Region:     "Sud",
			Category:   "Sauces (Nùsúnnú)",
			Difficulty: model.DifficultyEasy,
			PrepTime:   "15 min",
			CookTime:   "30 min",
			Ingredients: model.IngredientList{
				{Item: "Épinards (gboma)", Amount: "1 botte"},
				{Item: "Huile de palme", Amount: "10 cl"},
			},
			Steps: model.StringList{
				"Blanchir les feuilles.",
				"Mijoter avec l'huile de palme et les condiments.",
			},
			SuggestedSides: model.StringList{"Akassa", "Pâte blanche"},
		},
		{
			ID:          kuliID,
			Name:        "Kuli-kuli",
			Region:      "Nord",
			Category:    "Street Food & Snacks (Amuse-bouche)",
			Difficulty:  model.DifficultyIntermediate,
			PrepTime:    "30 min",
			CookTime:    "20 min",
			Ingredients: model.IngredientList{{Item: "Arachides grillées", Amount: "500 g"}},
			Steps:       model.StringList{"Moudre les arachides.", "Extraire l'huile.", "Façonner et frire."},
		},
		{
			ID:             wagashiID,
			Name:           "Wagashi",
			Region:         "Nord",
			Category:       "Protéines & Grillades",
			Difficulty:     model.DifficultyMedium,
			PrepTime:       "1 h",
			CookTime:       "30 min",
			Ingredients:    model.IngredientList{{Item: "Lait de vache", Amount: "5 l"}},
			Steps:          model.StringList{"Cailler le lait.", "Égoutter et presser.", "Frire les morceaux."},
			TechniqueTitle: "Caillage au Calotropis",
		},
		{
			ID:          abloID,
			Name:        "Ablo",
			Region:      "Sud",
			Category:    "Pâtes et Céréales (Wɔ̌)",
			Difficulty:  model.DifficultyIntermediate,
			PrepTime:    "12 h",
			CookTime:    "25 min",
			Ingredients: model.IngredientList{{Item: "Farine de riz", Amount: "300 g"}, {Item: "Levure", Amount: "1 sachet"}},
			Steps:       model.StringList{"Fermenter la pâte.", "Cuire à la vapeur."},
		},
	}
}

// Recipes upserts every record and returns how many were written.
func Recipes(ctx context.Context, s store.RecordStore, recipes []model.Recipe) (int, error) {
	written := 0
	for _, r := range recipes {
		if _, err := s.Upsert(ctx, r); err != nil {
			return written, fmt.Errorf("seed %s: %w", r.Name, err)
		}
		written++
	}
	return written, nil
}
