package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/core"
)

func TestEnrich(t *testing.T) {
	results := []core.ClassificationResult{
		result(1, core.CategoryMain),
		result(2, core.CategoryMain),
		result(3, core.CategoryMain),
		result(4, core.CategoryDessert),
	}
	var ins []core.Interaction
	ins = append(ins, repeat(1, 5, spring, 1)...)
	ins = append(ins, repeat(1, 5, winter, 1)...)
	ins = append(ins, repeat(1, 0, summer, 1)...)
	ins = append(ins, core.Interaction{RecipeID: 2, Rating: 3}) // 日期缺失同样计入
	ins = append(ins, repeat(4, 0, fall, 1)...)
	ins = append(ins, repeat(99, 1, fall, 3)...)

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	got, err := r.Enrich(results, ins)
	require.NoError(t, err)
	require.Len(t, got, 4)

	tests := []struct {
		id                   int64
		valid, total         int
		avg, catMean, bayesM float64
	}{
		{1, 2, 3, 5, 4, (65*4.0 + 2*5) / 67},
		{2, 1, 1, 3, 4, (65*4.0 + 3) / 66},
		// 没有互动：bayes_mean 等于类别均值
		{3, 0, 0, 0, 4, 4},
		// 甜点类别没有任何有效评分：收缩目标退回全部类别的平均值 (5+3)/2
		{4, 0, 1, 0, 4, 4},
	}
	for i, tt := range tests {
		e := got[i]
		assert.Equal(t, tt.id, e.RecipeID)
		assert.Equal(t, tt.valid, e.RatingCountValid, "id=%d", tt.id)
		assert.Equal(t, tt.total, e.RatingCountTotal, "id=%d", tt.id)
		assert.InDelta(t, tt.avg, e.AvgValidRating, 1e-12, "id=%d", tt.id)
		assert.InDelta(t, tt.catMean, e.CategoryMean, 1e-12, "id=%d", tt.id)
		assert.InDelta(t, tt.bayesM, e.BayesMean, 1e-12, "id=%d", tt.id)
	}
}

func TestEnrich_NoValidRatings(t *testing.T) {
	results := []core.ClassificationResult{result(1, core.CategoryBeverage), result(2, core.CategoryMain)}
	ins := repeat(1, 0, spring, 4)

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	got, err := r.Enrich(results, ins)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, e := range got {
		assert.Zero(t, e.AvgValidRating)
		assert.Zero(t, e.CategoryMean)
		assert.Zero(t, e.BayesMean)
	}
	assert.Equal(t, 4, got[0].RatingCountTotal)
}

func TestEnrich_InvalidRating(t *testing.T) {
	results := []core.ClassificationResult{result(1, core.CategoryMain)}
	ins := []core.Interaction{{RecipeID: 1, Rating: math.Inf(1), Date: spring}}

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	_, err = r.Enrich(results, ins)
	require.True(t, core.IsDataError(err))
	assert.Equal(t, int64(1), core.GetDomainError(err).RecipeID)
	assert.Equal(t, core.SeasonSpring, core.GetDomainError(err).Season)
}
