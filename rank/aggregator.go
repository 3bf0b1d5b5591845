package rank

import (
	"math"

	"github.com/rushteam/recipekit/core"
)

// Stats 记录聚合时被跳过的互动，便于核对输入数据。
type Stats struct {
	Interactions        int `json:"interactions"`
	Used                int `json:"used"`
	SkippedUnclassified int `json:"skipped_unclassified"`
	SkippedNoSeason     int `json:"skipped_no_season"`
}

// Baselines 是 (category, season) -> SeasonalBaseline 的只读查找表，覆盖全部 12 个组合。
type Baselines struct {
	table [core.NumCategories][len(core.Seasons)]core.SeasonalBaseline
}

// Get 返回基线；未知类别或季节返回 false。
func (b *Baselines) Get(cat core.Category, season core.Season) (core.SeasonalBaseline, bool) {
	ci, si := cat.Index(), season.Index()
	if ci < 0 || si < 0 {
		return core.SeasonalBaseline{}, false
	}
	return b.table[ci][si], true
}

// All 按类别优先级、季节顺序返回全部基线。
func (b *Baselines) All() []core.SeasonalBaseline {
	out := make([]core.SeasonalBaseline, 0, core.NumCategories*len(core.Seasons))
	for ci := range core.Categories {
		out = append(out, b.table[ci][:]...)
	}
	return out
}

type tally struct {
	sum   float64
	valid int
	total int
}

func (t *tally) add(rating float64) {
	t.total++
	if rating > 0 {
		t.sum += rating
		t.valid++
	}
}

func (t tally) mean() float64 { return t.sum / float64(t.valid) }

// checkRating 拒绝 NaN、±Inf 与负评分；0 表示未评分，是合法值。
func checkRating(in core.Interaction, cat core.Category, season core.Season) error {
	r := in.Rating
	if !math.IsNaN(r) && !math.IsInf(r, 0) && r >= 0 {
		return nil
	}
	err := core.NewDataError(core.ModuleRank, in.RecipeID, "invalid rating %v", r)
	err.Category = cat
	err.Season = season
	return err
}

// join 把互动映射到 (category, season) 下标；跳过的互动按原因计入 st。
func join(categories map[int64]core.Category, in core.Interaction, st *Stats) (ci, si int, ok bool) {
	st.Interactions++
	cat, found := categories[in.RecipeID]
	if !found || !cat.Valid() {
		st.SkippedUnclassified++
		return 0, 0, false
	}
	season := core.SeasonOf(in.Date)
	if season.Index() < 0 {
		st.SkippedNoSeason++
		return 0, 0, false
	}
	st.Used++
	return cat.Index(), season.Index(), true
}

// Aggregate 计算季节基线：
//   - 组内有有效评分（rating > 0）：season_avg = 有效评分均值（seasonal）
//   - 组内没有有效评分：回落到该类别跨季节的有效评分均值（category_fallback）
//   - 类别整体也没有有效评分：标记为 undefined，不编造数值
//
// 每次调用都完整重算，没有增量语义。已归类互动的评分为 NaN、±Inf 或负数时返回 DataError。
func Aggregate(categories map[int64]core.Category, interactions []core.Interaction) (*Baselines, Stats, error) {
	var (
		st      Stats
		groups  [core.NumCategories][len(core.Seasons)]tally
		overall [core.NumCategories]tally
	)
	for _, in := range interactions {
		ci, si, ok := join(categories, in, &st)
		if !ok {
			continue
		}
		if err := checkRating(in, core.Categories[ci], core.Seasons[si]); err != nil {
			return nil, st, err
		}
		groups[ci][si].add(in.Rating)
		overall[ci].add(in.Rating)
	}

	b := &Baselines{}
	for ci, cat := range core.Categories {
		for si, season := range core.Seasons {
			g := groups[ci][si]
			bl := core.SeasonalBaseline{
				Category:     cat,
				Season:       season,
				ValidRatings: g.valid,
				Interactions: g.total,
			}
			switch {
			case g.valid > 0:
				bl.SeasonAvg = g.mean()
				bl.Source = core.BaselineSeasonal
			case overall[ci].valid > 0:
				bl.SeasonAvg = overall[ci].mean()
				bl.Source = core.BaselineCategoryFallback
			default:
				bl.Source = core.BaselineUndefined
			}
			b.table[ci][si] = bl
		}
	}
	return b, st, nil
}
