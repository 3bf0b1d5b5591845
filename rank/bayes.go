package rank

import (
	"math"

	"github.com/rushteam/recipekit/core"
)

// Params 是一个类别的排名常数。
type Params struct {
	// Kb 收缩强度：有效评分越少，Q 越靠近季节基线
	Kb float64 `yaml:"kb" json:"kb" validate:"gt=0"`
	// Kpop 评论量尺度：控制 Pop_Weight 饱和速度
	Kpop float64 `yaml:"kpop" json:"kpop" validate:"gt=0"`
	// Gamma 曲率：放大低/高互动菜谱之间的差距
	Gamma float64 `yaml:"gamma" json:"gamma" validate:"gt=0"`
}

func (p Params) valid() bool { return p.Kb > 0 && p.Kpop > 0 && p.Gamma > 0 }

// maxPopWeight 是 Pop_Weight 的上界，保证 Pop_Weight ∈ [0,1)
var maxPopWeight = math.Nextafter(1, 0)

// Quality 计算贝叶斯收缩均分：
//
//	Q = (kb·season_avg + n·avg) / (kb + n)
//
// n = 0 时 Q 恰为 season_avg。浮点舍入导致越出 [min(avg, season_avg), max(...)] 时截断回区间；
// 截断只在舍入误差时触发，精确算术下 Q 本就落在区间内，结果与公式一致。
func Quality(kb, seasonAvg, validAvg float64, nValid int) float64 {
	if nValid <= 0 {
		return seasonAvg
	}
	n := float64(nValid)
	q := (kb*seasonAvg + n*validAvg) / (kb + n)
	return math.Min(math.Max(q, math.Min(validAvg, seasonAvg)), math.Max(validAvg, seasonAvg))
}

// PopWeight 计算 (1 − exp(−reviews/kpop))^gamma。reviews = 0 时为 0，饱和时截断在 1 以下。
func PopWeight(kpop, gamma float64, reviews int) float64 {
	if reviews <= 0 {
		return 0
	}
	w := math.Pow(1-math.Exp(-float64(reviews)/kpop), gamma)
	return math.Min(w, maxPopWeight)
}

// Score 返回 Q、Pop_Weight 与 Final = Q·Pop_Weight。
func Score(p Params, seasonAvg, validAvg float64, nValid, nReviews int) (q, pop, final float64) {
	q = Quality(p.Kb, seasonAvg, validAvg, nValid)
	pop = PopWeight(p.Kpop, p.Gamma, nReviews)
	return q, pop, q * pop
}

// Config 是排名阶段的配置。
type Config struct {
	Params map[core.Category]Params `yaml:"params" json:"params" validate:"required,dive"`
	// TopN 每个 (category, season) 保留的条目数，<= 0 表示全部保留
	TopN int `yaml:"top_n" json:"top_n"`
	// LeadersTopN 评论量榜每组保留的条目数
	LeadersTopN int `yaml:"leaders_top_n" json:"leaders_top_n" validate:"gte=0"`
	// Workers 并发打分的组数上限，<= 0 表示不限制
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig 返回参考部署的取值。
func DefaultConfig() Config {
	return Config{
		Params: map[core.Category]Params{
			core.CategoryMain:     {Kb: 65, Kpop: 45, Gamma: 1.2},
			core.CategoryDessert:  {Kb: 60, Kpop: 40, Gamma: 1.2},
			core.CategoryBeverage: {Kb: 20, Kpop: 4, Gamma: 0.7},
		},
		TopN:        20,
		LeadersTopN: 100,
	}
}
