package classify

import (
	"github.com/rushteam/recipekit/core"
)

// Vector 是 (sweet, savory, lean) 空间中的一个点。
type Vector struct {
	Sweet  float64 `yaml:"sweet" json:"sweet"`
	Savory float64 `yaml:"savory" json:"savory"`
	Lean   float64 `yaml:"lean" json:"lean"`
}

func (v Vector) slice() []float64 { return []float64{v.Sweet, v.Savory, v.Lean} }

// ConfidenceConfig 是结构置信度的校准常数：
// conf = 100·σ(Slope·(WPMax·pmax + WMargin·margin + WCertainty·(1−H) − penalty − Center))
type ConfidenceConfig struct {
	WPMax      float64 `yaml:"w_pmax" json:"w_pmax"`
	WMargin    float64 `yaml:"w_margin" json:"w_margin"`
	WCertainty float64 `yaml:"w_certainty" json:"w_certainty"`
	Slope      float64 `yaml:"slope" json:"slope" validate:"gt=0"`
	Center     float64 `yaml:"center" json:"center"`
}

// Config 是原型分类器的全部参数，按类别给出。
type Config struct {
	// Archetypes 每个类别的原型向量
	Archetypes map[core.Category]Vector `yaml:"archetypes" json:"archetypes"`

	// Mixing 基础 logit 的混合矩阵：logit[c] = Σ Mixing[c][k]·cos(v, archetype[k])
	Mixing map[core.Category]map[core.Category]float64 `yaml:"mixing" json:"mixing"`

	// Priors 类别先验，以 log(prior) 叠加到 logit
	Priors map[core.Category]float64 `yaml:"priors" json:"priors"`

	// Temperature logit 缩放温度
	Temperature float64 `yaml:"temperature" json:"temperature" validate:"gt=0"`

	Confidence ConfidenceConfig `yaml:"confidence" json:"confidence"`

	// DisabledCorrections 按名称关闭启发式修正（见 DefaultCorrections）
	DisabledCorrections []string `yaml:"disabled_corrections,omitempty" json:"disabled_corrections,omitempty"`
}

// DefaultConfig 返回参考部署的取值。
func DefaultConfig() Config {
	return Config{
		Archetypes: map[core.Category]Vector{
			core.CategoryMain:     {Sweet: 0.12, Savory: 0.28, Lean: 0.45},
			core.CategoryDessert:  {Sweet: 0.68, Savory: 0.07, Lean: 0.40},
			core.CategoryBeverage: {Sweet: 0.09, Savory: 0.05, Lean: 0.85},
		},
		Mixing: map[core.Category]map[core.Category]float64{
			core.CategoryMain:     {core.CategoryMain: 1.10, core.CategoryDessert: -0.30, core.CategoryBeverage: -0.25},
			core.CategoryDessert:  {core.CategoryMain: -0.30, core.CategoryDessert: 1.10, core.CategoryBeverage: -0.25},
			core.CategoryBeverage: {core.CategoryMain: -0.25, core.CategoryDessert: -0.30, core.CategoryBeverage: 1.10},
		},
		Priors: map[core.Category]float64{
			core.CategoryMain:     0.50,
			core.CategoryDessert:  0.35,
			core.CategoryBeverage: 0.15,
		},
		Temperature: 0.92,
		Confidence: ConfidenceConfig{
			WPMax:      0.62,
			WMargin:    0.38,
			WCertainty: 0.12,
			Slope:      3.2,
			Center:     0.5,
		},
	}
}
