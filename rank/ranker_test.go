package rank

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/core"
)

var (
	spring = time.Date(2019, time.April, 10, 0, 0, 0, 0, time.UTC)
	summer = time.Date(2019, time.July, 10, 0, 0, 0, 0, time.UTC)
	fall   = time.Date(2019, time.October, 10, 0, 0, 0, 0, time.UTC)
	winter = time.Date(2019, time.January, 10, 0, 0, 0, 0, time.UTC)
)

func result(id int64, cat core.Category) core.ClassificationResult {
	return core.ClassificationResult{RecipeID: id, Name: "recipe", Category: cat}
}

func repeat(id int64, rating float64, at time.Time, n int) []core.Interaction {
	out := make([]core.Interaction, n)
	for i := range out {
		out[i] = core.Interaction{RecipeID: id, Rating: rating, Date: at}
	}
	return out
}

func TestAggregate_BaselineSources(t *testing.T) {
	cats := map[int64]core.Category{1: core.CategoryMain, 2: core.CategoryMain}
	var ins []core.Interaction
	ins = append(ins, core.Interaction{RecipeID: 1, Rating: 4, Date: spring})
	ins = append(ins, core.Interaction{RecipeID: 2, Rating: 5, Date: spring})
	ins = append(ins, core.Interaction{RecipeID: 1, Rating: 0, Date: spring})
	ins = append(ins, core.Interaction{RecipeID: 1, Rating: 3, Date: summer})
	ins = append(ins, core.Interaction{RecipeID: 2, Rating: 0, Date: fall})
	ins = append(ins, core.Interaction{RecipeID: 9, Rating: 5, Date: spring})
	ins = append(ins, core.Interaction{RecipeID: 1, Rating: 5})

	b, st, err := Aggregate(cats, ins)
	require.NoError(t, err)

	assert.Equal(t, Stats{Interactions: 7, Used: 5, SkippedUnclassified: 1, SkippedNoSeason: 1}, st)

	sp, ok := b.Get(core.CategoryMain, core.SeasonSpring)
	require.True(t, ok)
	assert.Equal(t, core.BaselineSeasonal, sp.Source)
	assert.InDelta(t, 4.5, sp.SeasonAvg, 1e-12)
	assert.Equal(t, 2, sp.ValidRatings)
	assert.Equal(t, 3, sp.Interactions)

	// 秋季只有 rating = 0，回落到类别整体的有效评分均值 (4+5+3)/3
	fa, _ := b.Get(core.CategoryMain, core.SeasonFall)
	assert.Equal(t, core.BaselineCategoryFallback, fa.Source)
	assert.InDelta(t, 4.0, fa.SeasonAvg, 1e-12)
	assert.Equal(t, 1, fa.Interactions)

	wi, _ := b.Get(core.CategoryMain, core.SeasonWinter)
	assert.Equal(t, core.BaselineCategoryFallback, wi.Source)

	de, _ := b.Get(core.CategoryDessert, core.SeasonSpring)
	assert.Equal(t, core.BaselineUndefined, de.Source)
	assert.False(t, de.Defined())
	assert.Zero(t, de.SeasonAvg)

	_, ok = b.Get(core.CategoryMain, core.SeasonUnknown)
	assert.False(t, ok)
	assert.Len(t, b.All(), 12)
}

func TestRank_InvalidRatings(t *testing.T) {
	results := []core.ClassificationResult{result(1, core.CategoryMain), result(2, core.CategoryDessert)}
	tests := []struct {
		name   string
		rating float64
	}{
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"nan", math.NaN()},
		{"negative", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := []core.Interaction{
				{RecipeID: 2, Rating: 4, Date: spring},
				{RecipeID: 1, Rating: 4, Date: summer},
				{RecipeID: 1, Rating: tt.rating, Date: summer},
			}

			_, _, err := Aggregate(Categories(results), ins)
			require.Error(t, err)
			de := core.GetDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, core.ErrorCodeInvalidData, de.Code)
			assert.Equal(t, int64(1), de.RecipeID)
			assert.Equal(t, core.CategoryMain, de.Category)
			assert.Equal(t, core.SeasonSummer, de.Season)

			r, err := NewRanker(DefaultConfig())
			require.NoError(t, err)
			rep, err := r.Rank(context.Background(), results, ins)
			assert.True(t, core.IsDataError(err))
			assert.Nil(t, rep)

			_, err = ReviewLeaders(results, ins, 0)
			assert.True(t, core.IsDataError(err))
		})
	}

	// 未归类菜谱的互动不参与聚合，也不做评分校验
	_, _, err := Aggregate(Categories(results), []core.Interaction{{RecipeID: 99, Rating: math.NaN(), Date: spring}})
	assert.NoError(t, err)
}

func TestRanker_TopN(t *testing.T) {
	var (
		results []core.ClassificationResult
		ins     []core.Interaction
	)
	for id := int64(1); id <= 25; id++ {
		results = append(results, result(id, core.CategoryDessert))
		ins = append(ins, repeat(id, 5, spring, int(id))...)
	}

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)

	rep, err := r.Rank(context.Background(), results, ins)
	require.NoError(t, err)

	require.Len(t, rep.Groups, 4)
	g := rep.Groups[0]
	assert.Equal(t, core.CategoryDessert, g.Category)
	assert.Equal(t, core.SeasonSpring, g.Season)
	assert.Equal(t, 25, g.Candidates)
	require.Len(t, g.Entries, 20)

	for i, e := range g.Entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, int64(25-i), e.RecipeID)
		assert.InDelta(t, 5.0, e.Q, 1e-12)
		if i > 0 {
			assert.GreaterOrEqual(t, g.Entries[i-1].Final, e.Final)
		}
	}

	// 其他季节回落到类别基线，但没有条目
	for _, g := range rep.Groups[1:] {
		assert.Equal(t, core.BaselineCategoryFallback, g.Baseline.Source)
		assert.Empty(t, g.Entries)
	}
	assert.Len(t, rep.Skipped, 8)
	assert.Len(t, rep.Entries(), 20)
}

func TestRanker_TieBreak(t *testing.T) {
	results := []core.ClassificationResult{
		result(7, core.CategoryMain),
		result(3, core.CategoryMain),
		result(5, core.CategoryMain),
	}
	// 评论数相同，且有效评分都为 0：Q 与 Pop_Weight 相同，按 ID 升序
	var ins []core.Interaction
	ins = append(ins, core.Interaction{RecipeID: 1, Rating: 4, Date: winter})
	for _, id := range []int64{7, 3, 5} {
		ins = append(ins, repeat(id, 0, winter, 2)...)
	}
	results = append(results, result(1, core.CategoryMain))

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	rep, err := r.Rank(context.Background(), results, ins)
	require.NoError(t, err)

	var winterGroup *Group
	for i := range rep.Groups {
		if rep.Groups[i].Category == core.CategoryMain && rep.Groups[i].Season == core.SeasonWinter {
			winterGroup = &rep.Groups[i]
		}
	}
	require.NotNil(t, winterGroup)
	ids := make([]int64, 0, len(winterGroup.Entries))
	for _, e := range winterGroup.Entries {
		ids = append(ids, e.RecipeID)
	}
	assert.Equal(t, []int64{3, 5, 7, 1}, ids)
	assert.Zero(t, winterGroup.Entries[0].ValidAvgRating)
	assert.Equal(t, 0, winterGroup.Entries[0].NbValidRatings)
	assert.InDelta(t, 4.0, winterGroup.Entries[0].Q, 1e-12)
}

func TestRanker_Idempotent(t *testing.T) {
	results := []core.ClassificationResult{
		result(1, core.CategoryMain), result(2, core.CategoryDessert), result(3, core.CategoryBeverage),
	}
	var ins []core.Interaction
	for _, at := range []time.Time{spring, summer, fall, winter} {
		ins = append(ins, repeat(1, 4, at, 3)...)
		ins = append(ins, repeat(2, 5, at, 2)...)
		ins = append(ins, repeat(3, 0, at, 1)...)
		ins = append(ins, repeat(3, 3, at, 1)...)
	}

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	a, err := r.Rank(context.Background(), results, ins)
	require.NoError(t, err)
	b, err := r.Rank(context.Background(), results, ins)
	require.NoError(t, err)

	assert.Equal(t, a.Groups, b.Groups)
	assert.Len(t, a.Groups, 12)
	assert.Empty(t, a.Skipped)
	for _, e := range a.Entries() {
		assert.Greater(t, e.Final, 0.0)
		assert.Less(t, e.PopWeight, 1.0)
	}
}

func TestRanker_Cancelled(t *testing.T) {
	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Rank(ctx, []core.ClassificationResult{result(1, core.CategoryMain)},
		repeat(1, 5, spring, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRanker_ConfigErrors(t *testing.T) {
	missing := DefaultConfig()
	delete(missing.Params, core.CategoryBeverage)
	_, err := NewRanker(missing)
	assert.True(t, core.IsConfigError(err))

	bad := DefaultConfig()
	bad.Params[core.CategoryMain] = Params{Kb: 0, Kpop: 45, Gamma: 1.2}
	_, err = NewRanker(bad)
	assert.True(t, core.IsConfigError(err))
	assert.Equal(t, core.CategoryMain, core.GetDomainError(err).Category)
}

func TestReviewLeaders(t *testing.T) {
	results := []core.ClassificationResult{
		result(1, core.CategoryMain), result(2, core.CategoryMain), result(3, core.CategoryMain),
	}
	var ins []core.Interaction
	ins = append(ins, repeat(1, 0, spring, 5)...)
	ins = append(ins, repeat(2, 4, spring, 5)...)
	ins = append(ins, repeat(3, 5, spring, 2)...)

	leaders, err := ReviewLeaders(results, ins, 2)
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	assert.Equal(t, int64(2), leaders[0].RecipeID)
	assert.Equal(t, 5, leaders[0].ValidRatings)
	assert.InDelta(t, 4.0, leaders[0].AvgValidRating, 1e-12)
	assert.Equal(t, int64(1), leaders[1].RecipeID)
	assert.Zero(t, leaders[1].AvgValidRating)
	assert.Equal(t, 2, leaders[1].Rank)
}

func TestDistribution(t *testing.T) {
	results := []core.ClassificationResult{result(1, core.CategoryMain), result(2, core.CategoryBeverage)}
	var ins []core.Interaction
	ins = append(ins, repeat(1, 4, spring, 3)...)
	ins = append(ins, repeat(1, 4, winter, 1)...)
	ins = append(ins, repeat(2, 0, summer, 4)...)

	shares := Distribution(results, ins)
	require.Len(t, shares, 12)

	assert.Equal(t, Share{Category: core.CategoryMain, Season: core.SeasonSpring, Reviews: 3,
		PctOfCategory: 75, PctOfAllReviews: 37.5}, shares[0])
	assert.Equal(t, 0, shares[4].Reviews)
	assert.Zero(t, shares[4].PctOfCategory)
	assert.Equal(t, 100.0, shares[9].PctOfCategory)
}
