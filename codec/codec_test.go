package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/core"
)

func TestReadRecipes(t *testing.T) {
	in := `[
		{"id": 1, "name": "Cheesecake", "tags": ["dessert"], "nutrition": [400, 4, 220, 10, 4, 2, 60]},
		{"id": 2, "name": "Stew", "nutrition": {"calories": 500, "protein": 40}}
	]`
	got, err := ReadRecipes(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, core.Nutrition{Calories: 400, Fat: 4, Sugar: 220, Sodium: 10, Protein: 4, SaturatedFat: 2, Carbohydrates: 60}, got[0].Nutrition)
	assert.Equal(t, []string{"dessert"}, got[0].Tags)
	assert.Equal(t, core.Nutrition{Calories: 500, Protein: 40}, got[1].Nutrition)
}

func TestReadRecipes_BadNutrition(t *testing.T) {
	_, err := ReadRecipes(strings.NewReader(`[{"id": 1, "nutrition": [1, 2]}]`))
	assert.Error(t, err)
}

func TestReadInteractions(t *testing.T) {
	in := `[
		{"recipe_id": 1, "rating": 5, "date": "2008-07-01"},
		{"recipe_id": 1, "rating": 0, "date": "2010-12-25T10:00:00Z"},
		{"recipe_id": 2, "rating": 4, "date": "not a date"}
	]`
	got, err := ReadInteractions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, core.SeasonSummer, core.SeasonOf(got[0].Date))
	assert.Equal(t, core.SeasonWinter, core.SeasonOf(got[1].Date))
	assert.True(t, got[2].Date.IsZero())
	assert.False(t, got[1].Valid())
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2008, 3, 21, 0, 0, 0, 0, time.UTC), ParseDate("2008-03-21"))
	assert.True(t, ParseDate("").IsZero())
}

func TestWriteAndReadResults(t *testing.T) {
	res := []core.ClassificationResult{{
		RecipeID: 7,
		Category: core.CategoryDessert,
		PFinal:   core.Probs{0.1, 0.8, 0.1},
		Decision: core.DecisionBlended,
		Rule:     "blended",
	}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	got, err := ReadResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestReadResults_CategoryLabels(t *testing.T) {
	in := `[
		{"recipe_id": 1, "category": "plat"},
		{"recipe_id": 2, "category": "boisson"},
		{"recipe_id": 3, "category": "dessert"},
		{"recipe_id": 4, "category": "main"}
	]`
	got, err := ReadResults(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 4)

	want := []core.Category{core.CategoryMain, core.CategoryBeverage, core.CategoryDessert, core.CategoryMain}
	for i, res := range got {
		assert.Equal(t, want[i], res.Category, "recipe %d", res.RecipeID)
	}

	_, err = ReadResults(strings.NewReader(`[{"recipe_id": 1, "category": "soup"}]`))
	assert.Error(t, err)
}
