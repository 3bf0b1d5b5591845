package classify

import (
	"github.com/rushteam/recipekit/core"
)

// Delta 是按 core.Categories 顺序的 logit 增量。
type Delta [core.NumCategories]float64

func delta(main, dessert, beverage float64) Delta {
	return Delta{main, dessert, beverage}
}

// Correction 是一条启发式修正：When 命中时把 Delta 加到基础 logit 上。
type Correction struct {
	Name  string
	When  func(fv core.FeatureVector) bool
	Delta Delta
}

// Penalty 是结构置信度的扣分项。
type Penalty struct {
	Name   string
	When   func(fv core.FeatureVector) bool
	Amount float64
}

// DefaultCorrections 返回按顺序执行的修正表。
// 阈值来自参考数据集的人工校准。
func DefaultCorrections() []Correction {
	return []Correction{
		{
			Name: "low_sugar_savory",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return s.SugarEnergy < 0.09 && (fv.SavoryIdx > 0.18 || s.ProteinDensity > 0.06)
			},
			Delta: delta(0, -0.55, 0),
		},
		{
			Name: "sweet_not_savory",
			When: func(fv core.FeatureVector) bool {
				return (fv.Signals.SugarEnergy >= 0.20 || fv.SweetIdx > 0.55) && fv.SavoryIdx < 0.12
			},
			Delta: delta(-0.15, 0.30, 0),
		},
		{
			// 碳水几乎全是糖但糖能量很低：调味品、腌料一类
			Name: "sugar_only_carbs",
			When: func(fv core.FeatureVector) bool {
				return fv.Signals.SugarShareCarb > 0.85 && fv.Signals.SugarEnergy < 0.08
			},
			Delta: delta(0, -0.55, 0),
		},
		{
			Name: "savory_profile",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return (fv.SavoryIdx > 0.22 && fv.SweetIdx < 0.18) || (s.ProteinDensity > 0.08 && s.SugarEnergy < 0.12)
			},
			Delta: delta(0.40, 0, 0),
		},
		{
			Name: "lean_beverage",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return s.LowCalorie && fv.LeanIdx > 0.80 && s.ProteinDensity < 0.05 && s.SodiumDensity < 0.05
			},
			Delta: delta(0, 0, 0.45),
		},
		{
			Name: "fatty_savory_not_beverage",
			When: func(fv core.FeatureVector) bool {
				return fv.SavoryIdx > 0.15 && fv.LeanIdx < 0.70
			},
			Delta: delta(0, 0, -0.40),
		},
		{
			Name: "hybrid_savory_lead",
			When: func(fv core.FeatureVector) bool {
				return fv.HybridIdx > 0.18 && fv.SavoryIdx > fv.SweetIdx
			},
			Delta: delta(-0.05, -0.18, 0),
		},
		{
			Name: "hybrid_sweet_lead",
			When: func(fv core.FeatureVector) bool {
				return fv.HybridIdx > 0.18 && fv.SweetIdx > fv.SavoryIdx
			},
			Delta: delta(-0.18, -0.05, 0),
		},
		{
			Name: "hybrid_even",
			When: func(fv core.FeatureVector) bool {
				return fv.HybridIdx > 0.18 && fv.SweetIdx == fv.SavoryIdx
			},
			Delta: delta(-0.05, -0.05, 0),
		},
		{
			Name: "fruit_sweets",
			When: func(fv core.FeatureVector) bool {
				return (fv.Signals.SugarEnergy >= 0.18 || fv.SweetIdx >= 0.50) && fv.SavoryIdx < 0.14
			},
			Delta: delta(0, 0.25, 0),
		},
		{
			Name: "sweet_breads",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return s.SugarShareCarb >= 0.50 && s.SugarEnergy >= 0.15 &&
					s.FatEnergy >= 0.18 && s.FatEnergy <= 0.55 && fv.SavoryIdx < 0.16
			},
			Delta: delta(0, 0.22, 0),
		},
		{
			Name: "savory_dips",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return fv.SavoryIdx >= 0.22 && s.SugarEnergy < 0.12 && s.FatEnergy > 0.50
			},
			Delta: delta(0.25, -0.20, 0),
		},
		{
			Name: "drinks",
			When: func(fv core.FeatureVector) bool {
				s := fv.Signals
				return s.LowCalorie && fv.LeanIdx > 0.75 && s.ProteinDensity < 0.04 && s.SodiumDensity < 0.04
			},
			Delta: delta(0, 0, 0.20),
		},
		{
			Name: "fruit_soups",
			When: func(fv core.FeatureVector) bool {
				return fv.Signals.SugarEnergy >= 0.22 && fv.LeanIdx > 0.75 && fv.SavoryIdx < 0.12
			},
			Delta: delta(-0.12, 0.18, 0),
		},
	}
}

// DefaultPenalties 返回结构置信度的扣分表。
func DefaultPenalties() []Penalty {
	return []Penalty{
		{Name: "hybrid", Amount: 0.12, When: func(fv core.FeatureVector) bool { return fv.HybridIdx > 0.18 }},
		{Name: "flat", Amount: 0.10, When: func(fv core.FeatureVector) bool { return fv.SweetIdx < 0.08 && fv.SavoryIdx < 0.08 }},
		{Name: "sweet_without_sugar", Amount: 0.12, When: func(fv core.FeatureVector) bool {
			return fv.Signals.SugarEnergy < 0.06 && fv.SweetIdx > 0.40
		}},
		{Name: "savory_low_calorie", Amount: 0.08, When: func(fv core.FeatureVector) bool {
			return fv.Signals.LowCalorie && fv.SavoryIdx > 0.22
		}},
	}
}
