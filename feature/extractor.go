package feature

import (
	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pkg/mathx"
)

// 能量换算系数（kcal/g）与指数组合权重。
const (
	kcalPerGramFat     = 9.0
	kcalPerGramCarb    = 4.0
	kcalPerGramProtein = 4.0
	kcalPerGramSugar   = 4.0

	sweetEnergyWeight  = 0.55
	sweetDensityWeight = 0.45
	savoryProtWeight   = 0.55
	savorySodiumWeight = 0.45
	// sodiumScale 把 mg/kcal 的钠密度缩放到与蛋白密度可比的量级
	sodiumScale = 10.0
)

// Config 是特征抽取的可调参数。
type Config struct {
	// Epsilon 加在热量分母上，防止零热量记录除零
	Epsilon float64 `yaml:"epsilon" validate:"gt=0"`

	// LowCalorieThreshold 低于该热量视为低热量（饮品启发式会用到）
	LowCalorieThreshold float64 `yaml:"low_calorie_threshold" validate:"gte=0"`
}

// DefaultConfig 返回参考部署的取值。
func DefaultConfig() Config {
	return Config{
		Epsilon:             1e-6,
		LowCalorieThreshold: 150,
	}
}

// Extraction 是一次抽取的结果；Sanitized 列出被置零的营养字段。
type Extraction struct {
	Vector    core.FeatureVector
	Sanitized []string
}

// Extractor 把营养元组转换为有界指数。
//
// 抽取流程：
//  1. 清洗：NaN / ±Inf / 负值字段置零并记录
//  2. 按热量归一：能量占比（fat_E%、carb_E%、prot_E%、sugar_E%）与密度（g/kcal）
//  3. 组合指数：sweet / savory / lean / hybrid，全部截断到 [0,1]
//
// Extractor 无状态，可并发使用。
type Extractor struct {
	cfg Config
}

func NewExtractor(cfg Config) *Extractor {
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultConfig().Epsilon
	}
	return &Extractor{cfg: cfg}
}

func (e *Extractor) Name() string { return "nutrition" }

// Extract 计算一个菜谱的 FeatureVector。除 ε 保护外没有错误路径。
func (e *Extractor) Extract(n core.Nutrition) Extraction {
	n, sanitized := Sanitize(n)
	eps := e.cfg.Epsilon
	denom := n.Calories + eps

	sig := core.Signals{
		FatEnergy:      kcalPerGramFat * n.Fat / denom,
		CarbEnergy:     kcalPerGramCarb * n.Carbohydrates / denom,
		ProteinEnergy:  kcalPerGramProtein * n.Protein / denom,
		SugarEnergy:    mathx.Clamp01(kcalPerGramSugar * n.Sugar / denom),
		SugarDensity:   n.Sugar / denom,
		ProteinDensity: n.Protein / denom,
		SodiumDensity:  n.Sodium / denom,
		SugarShareCarb: n.Sugar / (n.Sugar + max(n.Carbohydrates-n.Sugar, 0) + eps),
		LowCalorie:     n.Calories < e.cfg.LowCalorieThreshold,
	}

	sweet := mathx.Clamp01(sweetEnergyWeight*sig.SugarEnergy + sweetDensityWeight*sig.SugarDensity)
	savory := mathx.Clamp01(savoryProtWeight*sig.ProteinDensity + savorySodiumWeight*(sig.SodiumDensity/sodiumScale))

	return Extraction{
		Vector: core.FeatureVector{
			SweetIdx:  sweet,
			SavoryIdx: savory,
			LeanIdx:   mathx.Clamp01(1.0 - sig.FatEnergy),
			HybridIdx: min(sweet, savory),
			Signals:   sig,
		},
		Sanitized: sanitized,
	}
}
