package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/config"
	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pkg/logging"
	"github.com/rushteam/recipekit/rank"
	"github.com/rushteam/recipekit/store"
)

var recipes = []core.Recipe{
	{
		ID:        1,
		Name:      "Classic Cheesecake",
		Tags:      []string{"cheesecake"},
		Nutrition: core.Nutrition{Calories: 400, Fat: 4, Sugar: 220, Sodium: 10, Protein: 4, SaturatedFat: 2, Carbohydrates: 60},
	},
	{
		ID:        2,
		Name:      "Beef Stew",
		Nutrition: core.Nutrition{Calories: 350, Fat: 20, Sugar: 1, Sodium: 1500, Protein: 50, SaturatedFat: 5, Carbohydrates: 1},
	},
	{
		ID:        3,
		Name:      "Mystery",
		Nutrition: core.Nutrition{Calories: -1, Fat: 0, Sugar: 0, Sodium: 0, Protein: 0, SaturatedFat: 0, Carbohydrates: 0},
	},
}

func interactions() []core.Interaction {
	spring := time.Date(2018, time.May, 1, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2018, time.December, 25, 0, 0, 0, 0, time.UTC)
	return []core.Interaction{
		{RecipeID: 1, Rating: 5, Date: spring},
		{RecipeID: 1, Rating: 4, Date: spring},
		{RecipeID: 2, Rating: 5, Date: winter},
		{RecipeID: 2, Rating: 0, Date: winter},
		{RecipeID: 99, Rating: 5, Date: winter},
		{RecipeID: 2, Rating: 3},
	}
}

func TestEngine_Run(t *testing.T) {
	e, err := New(config.Default(), WithWorkers(2))
	require.NoError(t, err)

	ctx := logging.ContextWithRunID(context.Background(), "test-run")
	out, err := e.Run(ctx, recipes, interactions())
	require.NoError(t, err)
	assert.Equal(t, "test-run", out.RunID)

	require.Len(t, out.Results, 3)
	for i, r := range out.Results {
		assert.Equal(t, recipes[i].ID, r.RecipeID, "结果顺序与输入一致")
		assert.True(t, r.Category.Valid())
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 100.0)
	}
	assert.Equal(t, core.CategoryDessert, out.Results[0].Category)
	assert.Equal(t, core.DecisionBlended, out.Results[0].Decision)
	assert.Equal(t, core.CategoryMain, out.Results[1].Category)

	rep := out.Report
	assert.Equal(t, rank.Stats{Interactions: 6, Used: 4, SkippedUnclassified: 1, SkippedNoSeason: 1}, rep.Stats)

	entries := rep.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].RecipeID)
	assert.Equal(t, core.SeasonWinter, entries[0].Season)
	assert.Equal(t, 2, entries[0].NbSeasonReviews)
	assert.Equal(t, 1, entries[0].NbValidRatings)
	assert.Equal(t, int64(1), entries[1].RecipeID)
	assert.Equal(t, core.SeasonSpring, entries[1].Season)
}

func TestEngine_Deterministic(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)

	a, err := e.Classify(context.Background(), recipes)
	require.NoError(t, err)
	b, err := e.Classify(context.Background(), recipes)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngine_Publish(t *testing.T) {
	s := store.NewMemoryStore()
	pub := rank.NewPublisher(s)
	e, err := New(config.Default(), WithPublisher(pub))
	require.NoError(t, err)

	out, err := e.Run(context.Background(), recipes, interactions())
	require.NoError(t, err)
	assert.NotEmpty(t, out.RunID)

	got, err := pub.Fetch(context.Background(), core.CategoryMain, core.SeasonWinter, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].RecipeID)
}

func TestEngine_Enrich(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()

	results, err := e.Classify(ctx, recipes)
	require.NoError(t, err)
	got, err := e.Enrich(ctx, results, interactions())
	require.NoError(t, err)
	require.Len(t, got, 3)

	stew := got[1]
	assert.Equal(t, int64(2), stew.RecipeID)
	assert.Equal(t, 3, stew.RatingCountTotal, "无日期的互动同样计入")
	assert.Equal(t, 2, stew.RatingCountValid)
	assert.InDelta(t, 4.0, stew.AvgValidRating, 1e-12)

	bad := append(interactions(), core.Interaction{RecipeID: 1, Rating: math.NaN(), Date: time.Now()})
	_, err = e.Enrich(ctx, results, bad)
	assert.True(t, core.IsDataError(err))
	_, err = e.Rank(ctx, results, bad)
	assert.True(t, core.IsDataError(err))
}

func TestNew_ConfigError(t *testing.T) {
	cfg := config.Default()
	delete(cfg.Rank.Params, core.CategoryDessert)
	_, err := New(cfg)
	assert.True(t, core.IsConfigError(err))

	cfg = config.Default()
	cfg.Pipeline.Nodes[2].Config = map[string]any{"strong_weight": -1.0}
	_, err = New(cfg)
	assert.True(t, core.IsConfigError(err))
}

func TestEngine_NoArbiterNode(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Nodes = cfg.Pipeline.Nodes[:3]
	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.Classify(context.Background(), recipes)
	assert.True(t, core.IsConfigError(err))
}

func TestEngine_Cancelled(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Classify(ctx, recipes)
	assert.ErrorIs(t, err, context.Canceled)
}
