package arbiter

import "github.com/rushteam/recipekit/core"

// Distribution 是 YAML 友好的类别分布。
type Distribution struct {
	Main     float64 `yaml:"main" json:"main"`
	Dessert  float64 `yaml:"dessert" json:"dessert"`
	Beverage float64 `yaml:"beverage" json:"beverage"`
}

func (d Distribution) Probs() core.Probs {
	return core.Probs{d.Main, d.Dessert, d.Beverage}
}

func (d Distribution) IsZero() bool { return d == Distribution{} }

// LevelWeights 按词典证据强度（1 仅 SOFT / 2 STRONG / 3 STRONG+SOFT）取值。
type LevelWeights struct {
	Soft   float64 `yaml:"soft" json:"soft"`
	Strong float64 `yaml:"strong" json:"strong"`
	Full   float64 `yaml:"full" json:"full"`
}

// At 返回 level 对应的值，level 0 返回 0。
func (w LevelWeights) At(level int) float64 {
	switch level {
	case 1:
		return w.Soft
	case 2:
		return w.Strong
	case 3:
		return w.Full
	}
	return 0
}

// Calibration 把分布映射为置信度：
// 100·σ(Slope·(WPMax·pmax + WMargin·margin + WCertainty·(1−H) − Center))
type Calibration struct {
	WPMax      float64 `yaml:"w_pmax" json:"w_pmax"`
	WMargin    float64 `yaml:"w_margin" json:"w_margin"`
	WCertainty float64 `yaml:"w_certainty" json:"w_certainty"`
	Slope      float64 `yaml:"slope" json:"slope" validate:"gt=0"`
	Center     float64 `yaml:"center" json:"center"`
}

// PatternRule 是一条 CEL 覆盖规则：When 为真时强制归为 Category。
// Distribution 为空时使用该类别的典型分布。
type PatternRule struct {
	Name          string        `yaml:"name" json:"name" validate:"required"`
	When          string        `yaml:"when" json:"when" validate:"required"`
	Category      core.Category `yaml:"category" json:"category" validate:"required"`
	Distribution  Distribution  `yaml:"distribution" json:"distribution"`
	MinConfidence float64       `yaml:"min_confidence" json:"min_confidence" validate:"gte=0,lte=100"`
}

// Config 是仲裁器的全部常数。
type Config struct {
	// IDOverrides 人工核对过的菜谱 ID -> 类别
	IDOverrides map[int64]core.Category `yaml:"id_overrides" json:"id_overrides"`
	// Canonical 每个类别被强制时使用的典型分布
	Canonical map[core.Category]Distribution `yaml:"canonical" json:"canonical"`
	// ForcedMinConfidence ID 覆盖的最低置信度
	ForcedMinConfidence float64 `yaml:"forced_min_confidence" json:"forced_min_confidence" validate:"gte=0,lte=100"`

	PatternOverrides []PatternRule `yaml:"pattern_overrides" json:"pattern_overrides" validate:"dive"`

	// StructThreshold 结构置信度达到该值时信任结构
	StructThreshold float64 `yaml:"struct_threshold" json:"struct_threshold" validate:"gte=0,lte=100"`
	// AgreeWeights 结构可信且词典同意时 p_nlp 的加权
	AgreeWeights LevelWeights `yaml:"agree_weights" json:"agree_weights"`
	// BlendWeights 结构不可信时 p_nlp 的基础权重，随结构置信度下降而放大
	BlendWeights LevelWeights `yaml:"blend_weights" json:"blend_weights"`
	// HybridThreshold / HybridBoost 甜咸混合时进一步放大 p_nlp 权重
	HybridThreshold float64 `yaml:"hybrid_threshold" json:"hybrid_threshold"`
	HybridBoost     float64 `yaml:"hybrid_boost" json:"hybrid_boost" validate:"gt=0"`

	Calibration Calibration `yaml:"calibration" json:"calibration"`
	// 同意加分需要结构置信度 >= BonusMinStruct 且词典最高概率 >= BonusMinLexical
	BonusMinStruct  float64      `yaml:"bonus_min_struct" json:"bonus_min_struct"`
	BonusMinLexical float64      `yaml:"bonus_min_lexical" json:"bonus_min_lexical"`
	AgreeBonus      LevelWeights `yaml:"agree_bonus" json:"agree_bonus"`
	DisagreePenalty LevelWeights `yaml:"disagree_penalty" json:"disagree_penalty"`
}

// DefaultSmoothieRule 是参考部署唯一的模式覆盖：结构不够确定的奶昔/冰沙一律归为饮品。
func DefaultSmoothieRule() PatternRule {
	return PatternRule{
		Name:          "smoothie_milkshake",
		When:          `text.matches("\\b(smoothie|milkshake)\\b") && struct_confidence < 90.0`,
		Category:      core.CategoryBeverage,
		Distribution:  Distribution{Main: 0.05, Dessert: 0.08, Beverage: 0.87},
		MinConfidence: 72,
	}
}

// DefaultConfig 返回参考部署的取值。IDOverrides 默认为空，由部署方按数据集提供。
func DefaultConfig() Config {
	return Config{
		IDOverrides: map[int64]core.Category{},
		Canonical: map[core.Category]Distribution{
			core.CategoryMain:     {Main: 0.86, Dessert: 0.09, Beverage: 0.05},
			core.CategoryDessert:  {Main: 0.10, Dessert: 0.84, Beverage: 0.06},
			core.CategoryBeverage: {Main: 0.06, Dessert: 0.10, Beverage: 0.84},
		},
		ForcedMinConfidence: 70,
		PatternOverrides:    []PatternRule{DefaultSmoothieRule()},
		StructThreshold:     60,
		AgreeWeights:        LevelWeights{Soft: 0.25, Strong: 0.35, Full: 0.45},
		BlendWeights:        LevelWeights{Soft: 0.60, Strong: 0.85, Full: 1.10},
		HybridThreshold:     0.18,
		HybridBoost:         1.25,
		Calibration: Calibration{
			WPMax:      0.60,
			WMargin:    0.40,
			WCertainty: 0.10,
			Slope:      3.0,
			Center:     0.5,
		},
		BonusMinStruct:  50,
		BonusMinLexical: 0.5,
		AgreeBonus:      LevelWeights{Soft: 3, Strong: 6, Full: 9},
		DisagreePenalty: LevelWeights{Soft: 8, Strong: 14, Full: 20},
	}
}
