package rank

import "github.com/rushteam/recipekit/core"

// Enrichment 是一个菜谱跨全部季节的评分汇总。
type Enrichment struct {
	RecipeID         int64         `json:"recipe_id"`
	Name             string        `json:"name"`
	Category         core.Category `json:"category"`
	RatingCountValid int           `json:"rating_count_valid"`
	RatingCountTotal int           `json:"rating_count_total"`
	AvgValidRating   float64       `json:"avg_valid_rating"` // 无有效评分时为 0
	// CategoryMean 是收缩目标：该类别有有效评分的菜谱，其有效均分的平均值
	CategoryMean float64 `json:"category_mean"`
	BayesMean    float64 `json:"bayes_mean"`
}

// Enrich 为每个分类结果计算跨季节的贝叶斯均分：
//
//	bayes_mean = (kb·category_mean + n·avg) / (kb + n)
//
// kb 取该类别的排名常数。类别内没有任何有效评分时，收缩目标退回全部类别的平均值，
// 仍然没有则为 0。n = 0 的菜谱 bayes_mean 等于收缩目标。
// 季节不参与计算，日期无法解析的互动同样计入。输出顺序与 results 一致，类别未知的结果被跳过。
func (r *Ranker) Enrich(results []core.ClassificationResult, interactions []core.Interaction) ([]Enrichment, error) {
	cats := Categories(results)
	perRec := make(map[int64]*tally, len(results))
	for _, in := range interactions {
		cat, ok := cats[in.RecipeID]
		if !ok || !cat.Valid() {
			continue
		}
		if err := checkRating(in, cat, core.SeasonOf(in.Date)); err != nil {
			return nil, err
		}
		t := perRec[in.RecipeID]
		if t == nil {
			t = &tally{}
			perRec[in.RecipeID] = t
		}
		t.add(in.Rating)
	}

	var (
		catMeans [core.NumCategories]tally
		overall  tally
		seen     = make(map[int64]bool, len(results))
	)
	for _, res := range results {
		ci := res.Category.Index()
		t := perRec[res.RecipeID]
		if ci < 0 || t == nil || t.valid == 0 || seen[res.RecipeID] {
			continue
		}
		seen[res.RecipeID] = true
		catMeans[ci].add(t.mean())
		overall.add(t.mean())
	}

	fallback := 0.0
	if overall.valid > 0 {
		fallback = overall.mean()
	}

	out := make([]Enrichment, 0, len(results))
	for _, res := range results {
		ci := res.Category.Index()
		if ci < 0 {
			continue
		}
		e := Enrichment{
			RecipeID:     res.RecipeID,
			Name:         res.Name,
			Category:     res.Category,
			CategoryMean: fallback,
		}
		if catMeans[ci].valid > 0 {
			e.CategoryMean = catMeans[ci].mean()
		}
		if t := perRec[res.RecipeID]; t != nil {
			e.RatingCountValid = t.valid
			e.RatingCountTotal = t.total
			if t.valid > 0 {
				e.AvgValidRating = t.mean()
			}
		}
		e.BayesMean = Quality(r.params[ci].Kb, e.CategoryMean, e.AvgValidRating, e.RatingCountValid)
		out = append(out, e)
	}
	return out, nil
}
