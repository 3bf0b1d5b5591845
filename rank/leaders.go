package rank

import (
	"sort"

	"github.com/rushteam/recipekit/core"
)

// Leader 是评论量榜的一行：全部评论（含 rating = 0）与有效评分统计。
type Leader struct {
	RecipeID       int64         `json:"recipe_id"`
	Name           string        `json:"name"`
	Category       core.Category `json:"category"`
	Season         core.Season   `json:"season"`
	Reviews        int           `json:"reviews"`
	ValidRatings   int           `json:"valid_ratings"`
	AvgValidRating float64       `json:"avg_valid_rating"` // 无有效评分时为 0
	Rank           int           `json:"rank"`
}

// ReviewLeaders 返回每个 (category, season) 评论数最多的 topN 个菜谱（topN <= 0 不截断），
// 用于核对排名常数是否合理。排序：评论数降序，有效评分数降序，ID 升序。
// 评分非法时返回 DataError。
func ReviewLeaders(results []core.ClassificationResult, interactions []core.Interaction, topN int) ([]Leader, error) {
	cats := Categories(results)
	names := make(map[int64]string, len(results))
	for _, res := range results {
		names[res.RecipeID] = res.Name
	}

	var st Stats
	perRec := make(map[recipeKey]*tally)
	for _, in := range interactions {
		ci, si, ok := join(cats, in, &st)
		if !ok {
			continue
		}
		if err := checkRating(in, core.Categories[ci], core.Seasons[si]); err != nil {
			return nil, err
		}
		k := recipeKey{ci: ci, si: si, id: in.RecipeID}
		if perRec[k] == nil {
			perRec[k] = &tally{}
		}
		perRec[k].add(in.Rating)
	}

	var groups [core.NumCategories][len(core.Seasons)][]Leader
	for k, t := range perRec {
		l := Leader{
			RecipeID:     k.id,
			Name:         names[k.id],
			Category:     core.Categories[k.ci],
			Season:       core.Seasons[k.si],
			Reviews:      t.total,
			ValidRatings: t.valid,
		}
		if t.valid > 0 {
			l.AvgValidRating = t.mean()
		}
		groups[k.ci][k.si] = append(groups[k.ci][k.si], l)
	}

	var out []Leader
	for ci := range groups {
		for si := range groups[ci] {
			g := groups[ci][si]
			sort.Slice(g, func(i, j int) bool {
				if g[i].Reviews != g[j].Reviews {
					return g[i].Reviews > g[j].Reviews
				}
				if g[i].ValidRatings != g[j].ValidRatings {
					return g[i].ValidRatings > g[j].ValidRatings
				}
				return g[i].RecipeID < g[j].RecipeID
			})
			if topN > 0 && len(g) > topN {
				g = g[:topN]
			}
			for i := range g {
				g[i].Rank = i + 1
			}
			out = append(out, g...)
		}
	}
	return out, nil
}
