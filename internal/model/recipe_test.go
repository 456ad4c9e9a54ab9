package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftDefaults(t *testing.T) {
	draft := NewDraft()

	_, err := uuid.Parse(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sud", draft.Region)
	assert.Equal(t, "Plats de Résistance & Ragoûts", draft.Category)
	assert.Equal(t, DifficultyMedium, draft.Difficulty)
	assert.Equal(t, "20 min", draft.PrepTime)
	assert.Equal(t, "30 min", draft.CookTime)
	assert.Empty(t, draft.Image)
	assert.NotNil(t, draft.Ingredients)
	assert.Empty(t, draft.Ingredients)
	assert.NotNil(t, draft.Steps)
	assert.Empty(t, draft.Steps)

	assert.NotEqual(t, draft.ID, NewDraft().ID)
}

func TestCloneIsIndependent(t *testing.T) {
	rating := 4.5
	original := Recipe{
		ID:             "a",
		Name:           "Atassi",
		Region:         "Sud",
		Ingredients:    IngredientList{{Item: "riz", Amount: "500 g"}},
		Steps:          StringList{"Laver le riz"},
		SuggestedSides: StringList{"piment"},
		Rating:         &rating,
	}
	before, err := json.Marshal(original)
	require.NoError(t, err)

	clone := original.Clone()
	clone.Name = "changed"
	clone.Ingredients[0].Amount = "1 kg"
	clone.Ingredients = append(clone.Ingredients, Ingredient{Item: "haricot"})
	clone.Steps[0] = "changed"
	clone.SuggestedSides[0] = "changed"
	*clone.Rating = 1

	after, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestCloneKeepsAbsentLists(t *testing.T) {
	clone := Recipe{ID: "x"}.Clone()
	assert.Nil(t, clone.Ingredients)
	assert.Nil(t, clone.Steps)
	assert.Nil(t, clone.Rating)
}

func TestRecipeJSONUsesTableColumnNames(t *testing.T) {
	r := Recipe{ID: "a", Name: "Kom", PrepTime: "10 min", OrigineHumaine: "Fon", VideoURL: "https://v"}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Contains(t, fields, "prepTime")
	assert.Contains(t, fields, "origine_humaine")
	assert.Contains(t, fields, "videoUrl")
	assert.NotContains(t, fields, "alias")
	assert.NotContains(t, fields, "rating")
}

func TestListColumnsScan(t *testing.T) {
	var ings IngredientList
	require.NoError(t, ings.Scan([]byte(`[{"item":"sel","amount":"1 pincée"}]`)))
	assert.Equal(t, IngredientList{{Item: "sel", Amount: "1 pincée"}}, ings)

	var steps StringList
	require.NoError(t, steps.Scan(`["a","b"]`))
	assert.Equal(t, StringList{"a", "b"}, steps)

	require.NoError(t, steps.Scan(nil))
	assert.Nil(t, steps)

	assert.Error(t, steps.Scan(42))

	v, err := StringList{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = IngredientList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
