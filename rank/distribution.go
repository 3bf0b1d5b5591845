package rank

import "github.com/rushteam/recipekit/core"

// Share 是一个 (category, season) 的评论量占比。
type Share struct {
	Category        core.Category `json:"category"`
	Season          core.Season   `json:"season"`
	Reviews         int           `json:"reviews"`
	PctOfCategory   float64       `json:"pct_of_category"` // 占该类别全部评论的百分比
	PctOfAllReviews float64       `json:"pct_of_all"`      // 占全部已归类评论的百分比
}

// Distribution 统计评论的季节分布，按类别优先级、季节顺序返回 12 行。
// 分母为 0 时百分比为 0。
func Distribution(results []core.ClassificationResult, interactions []core.Interaction) []Share {
	cats := Categories(results)

	var (
		st       Stats
		counts   [core.NumCategories][len(core.Seasons)]int
		perCat   [core.NumCategories]int
		totalAll int
	)
	for _, in := range interactions {
		ci, si, ok := join(cats, in, &st)
		if !ok {
			continue
		}
		counts[ci][si]++
		perCat[ci]++
		totalAll++
	}

	out := make([]Share, 0, core.NumCategories*len(core.Seasons))
	for ci, cat := range core.Categories {
		for si, season := range core.Seasons {
			s := Share{Category: cat, Season: season, Reviews: counts[ci][si]}
			if perCat[ci] > 0 {
				s.PctOfCategory = 100 * float64(s.Reviews) / float64(perCat[ci])
			}
			if totalAll > 0 {
				s.PctOfAllReviews = 100 * float64(s.Reviews) / float64(totalAll)
			}
			out = append(out, s)
		}
	}
	return out
}
