package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/store"
)

func TestPublisher_RoundTrip(t *testing.T) {
	ctx := context.Background()
	results := []core.ClassificationResult{
		result(1, core.CategoryMain), result(2, core.CategoryMain), result(3, core.CategoryMain),
	}
	var ins []core.Interaction
	ins = append(ins, repeat(1, 5, spring, 1)...)
	ins = append(ins, repeat(2, 4, spring, 30)...)
	ins = append(ins, repeat(3, 3, spring, 10)...)

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	rep, err := r.Rank(ctx, results, ins)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	p := NewPublisher(s)
	assert.Equal(t, "rank:main:spring", p.Key(core.CategoryMain, core.SeasonSpring))

	require.NoError(t, p.Publish(ctx, rep))
	// 重复发布结果一致
	require.NoError(t, p.Publish(ctx, rep))

	got, err := p.Fetch(ctx, core.CategoryMain, core.SeasonSpring, 0)
	require.NoError(t, err)
	assert.Equal(t, rep.Groups[0].Entries, got)

	top, err := p.Fetch(ctx, core.CategoryMain, core.SeasonSpring, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].RecipeID)

	none, err := p.Fetch(ctx, core.CategoryBeverage, core.SeasonSpring, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPublisher_ClearsStaleGroups(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := &Publisher{Store: s, Prefix: "test"}

	require.NoError(t, s.ZAdd(ctx, "test:dessert:fall", 1, "42"))
	require.NoError(t, p.Publish(ctx, &Report{}))

	ids, err := s.ZRange(ctx, "test:dessert:fall", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPublisher_FetchKeepsTieOrder(t *testing.T) {
	ctx := context.Background()
	// Final 完全相同；ZSET 按成员字符串降序会得到 9, 3, 10
	results := []core.ClassificationResult{
		result(3, core.CategoryMain), result(10, core.CategoryMain), result(9, core.CategoryMain),
	}
	var ins []core.Interaction
	for _, id := range []int64{3, 10, 9} {
		ins = append(ins, repeat(id, 4, spring, 2)...)
	}

	r, err := NewRanker(DefaultConfig())
	require.NoError(t, err)
	rep, err := r.Rank(ctx, results, ins)
	require.NoError(t, err)
	require.Len(t, rep.Groups, 4)
	assert.Equal(t, []int64{3, 9, 10}, ids(rep.Groups[0].Entries))

	p := NewPublisher(store.NewMemoryStore())
	require.NoError(t, p.Publish(ctx, rep))

	tests := []struct {
		n    int
		want []int64
	}{
		{0, []int64{3, 9, 10}},
		{1, []int64{3}},
		{2, []int64{3, 9}},
		{5, []int64{3, 9, 10}},
	}
	for _, tt := range tests {
		got, err := p.Fetch(ctx, core.CategoryMain, core.SeasonSpring, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(got), "n=%d", tt.n)
		for i, e := range got {
			assert.Equal(t, i+1, e.Rank)
		}
	}
}

func TestPublisher_FetchMissingEntry(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := NewPublisher(s)
	require.NoError(t, s.ZAdd(ctx, p.Key(core.CategoryMain, core.SeasonSpring), 3.2, "7"))

	_, err := p.Fetch(ctx, core.CategoryMain, core.SeasonSpring, 0)
	assert.True(t, core.IsNotFound(err))
}

func ids(entries []core.RankingEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.RecipeID
	}
	return out
}
