package core

import (
	"math"
	"time"
)

// Nutrition 是菜谱的营养元组，字段顺序与原始数据集一致。
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
	Protein       float64 `json:"protein"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
}

// Recipe 是不可变的输入记录。
type Recipe struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	Nutrition Nutrition `json:"nutrition"`
}

// Interaction 是一条用户互动。Rating 为 0 表示未评分，而不是低分。
// Date 只用于推导季节。
type Interaction struct {
	RecipeID int64     `json:"recipe_id"`
	Rating   float64   `json:"rating"`
	Date     time.Time `json:"date"`
}

// Valid 表示该互动是否带有有效评分（rating > 0）。
func (in Interaction) Valid() bool { return in.Rating > 0 }

// Signals 是特征抽取的中间量，结构分类的启发式修正会用到。
type Signals struct {
	FatEnergy      float64 `json:"fat_energy"`
	CarbEnergy     float64 `json:"carb_energy"`
	ProteinEnergy  float64 `json:"protein_energy"`
	SugarEnergy    float64 `json:"sugar_energy"`
	SugarDensity   float64 `json:"sugar_density"`
	ProteinDensity float64 `json:"protein_density"`
	SodiumDensity  float64 `json:"sodium_density"`
	SugarShareCarb float64 `json:"sugar_share_carb"`
	LowCalorie     bool    `json:"low_calorie"`
}

// FeatureVector 是由营养元组导出的有界指数，每个值都在 [0,1]。
// 创建后不再修改。
type FeatureVector struct {
	SweetIdx  float64 `json:"sweet_idx"`
	SavoryIdx float64 `json:"savory_idx"`
	LeanIdx   float64 `json:"lean_idx"`
	HybridIdx float64 `json:"hybrid_idx"`
	Signals   Signals `json:"signals"`
}

// Finite 检查所有字段是否为有限值。
func (fv FeatureVector) Finite() bool {
	for _, v := range []float64{
		fv.SweetIdx, fv.SavoryIdx, fv.LeanIdx, fv.HybridIdx,
		fv.Signals.FatEnergy, fv.Signals.CarbEnergy, fv.Signals.ProteinEnergy,
		fv.Signals.SugarEnergy, fv.Signals.SugarDensity, fv.Signals.ProteinDensity,
		fv.Signals.SodiumDensity, fv.Signals.SugarShareCarb,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DecisionKind 标记仲裁走的是哪条分支。
type DecisionKind string

const (
	DecisionForced        DecisionKind = "forced"
	DecisionStructuralWin DecisionKind = "structural_win"
	DecisionBlended       DecisionKind = "blended"
)

// ClassificationResult 由仲裁器为每个菜谱生成一次，下游只读。
type ClassificationResult struct {
	RecipeID         int64        `json:"recipe_id"`
	Name             string       `json:"name"`
	Category         Category     `json:"category"`
	PStruct          Probs        `json:"p_struct"`
	PNLP             Probs        `json:"p_nlp"`
	PFinal           Probs        `json:"p_final"`
	StructConfidence float64      `json:"struct_confidence"`
	Confidence       float64      `json:"confidence"`
	ExceptionHit     bool         `json:"exception_hit"`
	Exception        string       `json:"exception,omitempty"`
	Decision         DecisionKind `json:"decision"`
	Rule             string       `json:"rule"`
}

// BaselineSource 说明季节基线的来源。
type BaselineSource string

const (
	BaselineSeasonal         BaselineSource = "seasonal"
	BaselineCategoryFallback BaselineSource = "category_fallback"
	BaselineUndefined        BaselineSource = "undefined"
)

// SeasonalBaseline 是 (category, season) 的先验均分。
type SeasonalBaseline struct {
	Category     Category       `json:"category"`
	Season       Season         `json:"season"`
	SeasonAvg    float64        `json:"season_avg"`
	ValidRatings int            `json:"valid_ratings"`
	Interactions int            `json:"interactions"`
	Source       BaselineSource `json:"source"`
}

// Defined 表示基线是否可用于打分。
func (b SeasonalBaseline) Defined() bool { return b.Source != BaselineUndefined }

// RankingEntry 是 (recipe, season) 的排名结果。同一菜谱在不同季节可能各出现一次。
type RankingEntry struct {
	RecipeID        int64    `json:"recipe_id"`
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	Season          Season   `json:"season"`
	ValidAvgRating  float64  `json:"valid_avg_rating"`
	NbValidRatings  int      `json:"nb_valid_ratings"`
	NbSeasonReviews int      `json:"nb_season_reviews"`
	SeasonAvg       float64  `json:"season_avg"`
	Q               float64  `json:"q"`
	PopWeight       float64  `json:"pop_weight"`
	Final           float64  `json:"final"`
	Rank            int      `json:"rank"`
}
