package rerank

import (
	"sort"

	"github.com/rushteam/recipekit/core"
)

// Less 是排名条目的确定性顺序：Final 降序，NbValidRatings 降序，RecipeID 升序。
func Less(a, b core.RankingEntry) bool {
	if a.Final != b.Final {
		return a.Final > b.Final
	}
	if a.NbValidRatings != b.NbValidRatings {
		return a.NbValidRatings > b.NbValidRatings
	}
	return a.RecipeID < b.RecipeID
}

// TopN 对一个 (category, season) 组排序并截取前 N 个，按顺序写入 Rank（从 1 开始）。
//
// 使用场景：
//   - 每个季节只发布 Top 20
//   - N <= 0 时不截断，保留整组（导出完整榜单）
//
// 示例：
//
//	top := rerank.TopN{N: 20}.Apply(entries)
type TopN struct {
	// N 要保留的条目数量
	// 如果 N <= 0，则返回所有条目（不截断）
	// 如果 N > len(entries)，则返回所有条目
	N int
}

func (t TopN) Name() string { return "rerank.topn" }

// Apply 返回排好序的新切片，不修改输入。
func (t TopN) Apply(entries []core.RankingEntry) []core.RankingEntry {
	out := make([]core.RankingEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })

	if t.N > 0 && len(out) > t.N {
		out = out[:t.N]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
