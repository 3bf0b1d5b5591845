package rank

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/rerank"
)

// Group 是一个 (category, season) 组的排名结果。
type Group struct {
	Category   core.Category         `json:"category"`
	Season     core.Season           `json:"season"`
	Baseline   core.SeasonalBaseline `json:"baseline"`
	Candidates int                   `json:"candidates"`
	Entries    []core.RankingEntry   `json:"entries"`
}

// Report 是一次排名运行的完整输出。
type Report struct {
	Baselines *Baselines `json:"-"`
	Stats     Stats      `json:"stats"`
	// Groups 按类别优先级、季节顺序排列；基线 undefined 的组不在其中
	Groups []Group `json:"groups"`
	// Skipped 是因基线 undefined 而跳过的组
	Skipped []core.SeasonalBaseline `json:"skipped,omitempty"`
}

// Entries 按组顺序拼接全部条目。
func (r *Report) Entries() []core.RankingEntry {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Entries)
	}
	out := make([]core.RankingEntry, 0, n)
	for _, g := range r.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Ranker 计算季节性贝叶斯排名。构造后只读，可并发使用。
type Ranker struct {
	params  [core.NumCategories]Params
	topN    rerank.TopN
	workers int
}

// NewRanker 校验每个类别都有合法的 (kb, kpop, gamma)，否则返回 ConfigurationError。
func NewRanker(cfg Config) (*Ranker, error) {
	r := &Ranker{topN: rerank.TopN{N: cfg.TopN}, workers: cfg.Workers}
	for i, cat := range core.Categories {
		p, ok := cfg.Params[cat]
		if !ok {
			return nil, core.NewConfigError(core.ModuleRank, cat, "missing ranking params")
		}
		if !p.valid() {
			return nil, core.NewConfigError(core.ModuleRank, cat, "kb, kpop and gamma must be > 0, got %+v", p)
		}
		r.params[i] = p
	}
	return r, nil
}

type recipeKey struct {
	ci, si int
	id     int64
}

// Categories 从分类结果构建 recipe -> category 映射。
func Categories(results []core.ClassificationResult) map[int64]core.Category {
	m := make(map[int64]core.Category, len(results))
	for _, res := range results {
		m[res.RecipeID] = res.Category
	}
	return m
}

// Rank 执行排名：
//  1. 聚合 12 个季节基线（屏障：全部完成后才开始打分），评分非法时直接返回 DataError
//  2. 按 (category, season, recipe) 统计评论数与有效评分
//  3. 各组并发打分、排序、截断
func (r *Ranker) Rank(ctx context.Context, results []core.ClassificationResult, interactions []core.Interaction) (*Report, error) {
	cats := Categories(results)
	names := make(map[int64]string, len(results))
	for _, res := range results {
		names[res.RecipeID] = res.Name
	}

	baselines, stats, err := Aggregate(cats, interactions)
	if err != nil {
		return nil, err
	}

	var (
		ignored Stats
		perRec  = make(map[recipeKey]*tally)
		members [core.NumCategories][len(core.Seasons)][]int64
	)
	for _, in := range interactions {
		ci, si, ok := join(cats, in, &ignored)
		if !ok {
			continue
		}
		k := recipeKey{ci: ci, si: si, id: in.RecipeID}
		t, ok := perRec[k]
		if !ok {
			t = &tally{}
			perRec[k] = t
			members[ci][si] = append(members[ci][si], in.RecipeID)
		}
		t.add(in.Rating)
	}

	type slot struct {
		group   Group
		skipped bool
	}
	slots := make([]slot, core.NumCategories*len(core.Seasons))

	g, gctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}
	for ci, cat := range core.Categories {
		for si, season := range core.Seasons {
			idx := ci*len(core.Seasons) + si
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				bl, _ := baselines.Get(cat, season)
				if !bl.Defined() {
					slots[idx] = slot{group: Group{Category: cat, Season: season, Baseline: bl}, skipped: true}
					return nil
				}
				p := r.params[ci]
				entries := make([]core.RankingEntry, 0, len(members[ci][si]))
				for _, id := range members[ci][si] {
					t := perRec[recipeKey{ci: ci, si: si, id: id}]
					e := core.RankingEntry{
						RecipeID:        id,
						Name:            names[id],
						Category:        cat,
						Season:          season,
						NbValidRatings:  t.valid,
						NbSeasonReviews: t.total,
						SeasonAvg:       bl.SeasonAvg,
					}
					if t.valid > 0 {
						e.ValidAvgRating = t.mean()
					}
					e.Q, e.PopWeight, e.Final = Score(p, bl.SeasonAvg, e.ValidAvgRating, t.valid, t.total)
					// 零互动（Final = 0）不进入榜单
					if e.NbSeasonReviews == 0 || e.Final == 0 {
						continue
					}
					entries = append(entries, e)
				}
				slots[idx] = slot{group: Group{
					Category:   cat,
					Season:     season,
					Baseline:   bl,
					Candidates: len(entries),
					Entries:    r.topN.Apply(entries),
				}}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Baselines: baselines, Stats: stats}
	for _, s := range slots {
		if s.skipped {
			rep.Skipped = append(rep.Skipped, s.group.Baseline)
			continue
		}
		rep.Groups = append(rep.Groups, s.group)
	}
	return rep, nil
}
