package arbiter

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/recipekit/classify"
	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/feature"
	"github.com/rushteam/recipekit/lexicon"
)

var (
	// 高糖低钠：结构 argmax = dessert，结构置信度 57.1
	sweetNutrition = core.Nutrition{Calories: 400, Fat: 4, Sugar: 220, Sodium: 10, Protein: 4, SaturatedFat: 2, Carbohydrates: 60}
	// 高蛋白高钠：结构 argmax = main，结构置信度 80.0
	savoryNutrition = core.Nutrition{Calories: 350, Fat: 20, Sugar: 1, Sodium: 1500, Protein: 50, SaturatedFat: 5, Carbohydrates: 1}
)

func buildInput(t *testing.T, r core.Recipe) Input {
	t.Helper()
	clf, err := classify.New(classify.DefaultConfig())
	require.NoError(t, err)
	lex, err := lexicon.New(lexicon.DefaultConfig())
	require.NoError(t, err)

	fv := feature.NewExtractor(feature.DefaultConfig()).Extract(r.Nutrition).Vector
	st, err := clf.Score(r.ID, fv)
	require.NoError(t, err)
	return Input{
		Recipe:     r,
		Features:   fv,
		Structural: st,
		Lexical:    lex.Score(r.Name, r.Tags),
	}
}

func TestArbiter_Resolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IDOverrides = map[int64]core.Category{1083: core.CategoryMain}
	a, err := New(cfg)
	require.NoError(t, err)

	tests := []struct {
		name          string
		recipe        core.Recipe
		wantCategory  core.Category
		wantRule      string
		wantDecision  core.DecisionKind
		wantConf      float64
		wantException string
	}{
		{
			name:         "结构偏弱且词典同意：加权合并 + 同意加分",
			recipe:       core.Recipe{ID: 1, Name: "New York Style", Tags: []string{"cheesecake"}, Nutrition: sweetNutrition},
			wantCategory: core.CategoryDessert,
			wantRule:     RuleBlended,
			wantDecision: core.DecisionBlended,
			wantConf:     74.1,
		},
		{
			name:         "词典沉默：结构胜出，p_final = p_struct",
			recipe:       core.Recipe{ID: 2, Name: "Grandma's Special", Nutrition: sweetNutrition},
			wantCategory: core.CategoryDessert,
			wantRule:     RuleStructuralWin,
			wantDecision: core.DecisionStructuralWin,
			wantConf:     56.0,
		},
		{
			name:         "词典仅 SOFT 且分歧：合并后仍为 dessert，分歧扣分",
			recipe:       core.Recipe{ID: 3, Name: "Garlic Rice", Nutrition: sweetNutrition},
			wantCategory: core.CategoryDessert,
			wantRule:     RuleBlended,
			wantDecision: core.DecisionBlended,
			wantConf:     27.4,
		},
		{
			name:         "结构强且同意",
			recipe:       core.Recipe{ID: 4, Name: "Beef Stew", Nutrition: savoryNutrition},
			wantCategory: core.CategoryMain,
			wantRule:     RuleStructuralWin,
			wantDecision: core.DecisionStructuralWin,
			wantConf:     84.4,
		},
		{
			name:         "结构强但分歧：保留结构，分歧扣分",
			recipe:       core.Recipe{ID: 5, Name: "Chocolate Cheesecake", Nutrition: savoryNutrition},
			wantCategory: core.CategoryMain,
			wantRule:     RuleStructuralWin,
			wantDecision: core.DecisionStructuralWin,
			wantConf:     63.9,
		},
		{
			name:          "奶昔模式覆盖",
			recipe:        core.Recipe{ID: 6, Name: "Mango Smoothie", Nutrition: sweetNutrition},
			wantCategory:  core.CategoryBeverage,
			wantRule:      RulePatternOverride,
			wantDecision:  core.DecisionForced,
			wantConf:      76.6,
			wantException: "pattern:smoothie_milkshake",
		},
		{
			name:          "ID 覆盖优先于一切",
			recipe:        core.Recipe{ID: 1083, Name: "Mango Smoothie", Nutrition: sweetNutrition},
			wantCategory:  core.CategoryMain,
			wantRule:      RuleIDOverride,
			wantDecision:  core.DecisionForced,
			wantConf:      75.7,
			wantException: "id:1083",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := buildInput(t, tt.recipe)
			got, err := a.Resolve(in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantRule, got.Rule)
			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.051)
			assert.Equal(t, tt.wantException != "", got.ExceptionHit)
			assert.Equal(t, tt.wantException, got.Exception)

			for _, p := range []core.Probs{got.PStruct, got.PNLP, got.PFinal} {
				assert.InDelta(t, 1.0, p.Sum(), 1e-6)
			}
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 100.0)
			assert.Equal(t, got.PFinal.Top(), got.Category)
		})
	}
}

func TestArbiter_StructuralWinKeepsStructOnSilence(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := buildInput(t, core.Recipe{ID: 2, Name: "Grandma's Special", Nutrition: sweetNutrition})
	got, err := a.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, in.Structural.Probs, got.PFinal)
}

func TestArbiter_SmoothieNeedsLowStructConfidence(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := buildInput(t, core.Recipe{ID: 9, Name: "Protein Smoothie", Nutrition: savoryNutrition})
	in.Structural.Confidence = 95
	got, err := a.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, RuleStructuralWin, got.Rule)
	assert.False(t, got.ExceptionHit)
}

func TestArbiter_Decide(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := buildInput(t, core.Recipe{ID: 1, Name: "Beef Stew", Nutrition: savoryNutrition})
	rule, d, err := a.Decide(in)
	require.NoError(t, err)
	assert.Equal(t, RuleStructuralWin, rule)
	assert.Equal(t, StructuralWin{Agree: true, Weight: 0.35}, d)

	in = buildInput(t, core.Recipe{ID: 1, Name: "New York Style", Tags: []string{"cheesecake"}, Nutrition: sweetNutrition})
	rule, d, err = a.Decide(in)
	require.NoError(t, err)
	assert.Equal(t, RuleBlended, rule)
	bl, ok := d.(Blended)
	require.True(t, ok)
	// 0.85 · (1 + (60 − 57.1)/60)
	assert.InDelta(t, 0.85*(1+(60-57.1)/60), bl.WNLP, 1e-9)

	names := make([]string, 0, 4)
	for _, r := range a.Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{RuleIDOverride, RulePatternOverride, RuleStructuralWin, RuleBlended}, names)
}

func TestArbiter_DataError(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := buildInput(t, core.Recipe{ID: 77, Name: "Beef Stew", Nutrition: savoryNutrition})
	in.Structural.Probs = core.Probs{math.NaN(), 0.5, 0.5}
	_, err = a.Resolve(in)
	require.Error(t, err)
	assert.True(t, core.IsDataError(err))
	assert.Equal(t, int64(77), core.GetDomainError(err).RecipeID)
}

func TestArbiter_TieBreakByCategoryOrder(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := Input{
		Recipe:     core.Recipe{ID: 1},
		Structural: core.StructuralScore{Probs: core.Probs{0.4, 0.4, 0.2}, Confidence: 80},
		Lexical:    core.LexicalScore{Probs: core.Probs{1.0 / 3, 1.0 / 3, 1.0 / 3}, Silent: true},
	}
	got, err := a.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryMain, got.Category)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"缺少典型分布", func(c *Config) { delete(c.Canonical, core.CategoryDessert) }},
		{"ID 覆盖未知类别", func(c *Config) { c.IDOverrides = map[int64]core.Category{1: "soup"} }},
		{"CEL 编译失败", func(c *Config) { c.PatternOverrides[0].When = "text.matches(" }},
		{"模式覆盖未知类别", func(c *Config) { c.PatternOverrides[0].Category = "snack" }},
		{"阈值非正", func(c *Config) { c.StructThreshold = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, core.IsConfigError(err))
		})
	}
}

func TestNode_Process(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	in := buildInput(t, core.Recipe{ID: 1, Name: "New York Style", Tags: []string{"cheesecake"}, Nutrition: sweetNutrition})
	it := core.NewItem(in.Recipe)
	it.Features, it.Structural, it.Lexical = &in.Features, &in.Structural, &in.Lexical

	out, err := (&Node{Arbiter: a}).Process(context.Background(), core.NewRunContext("t", 0), []*core.Item{it})
	require.NoError(t, err)
	require.NotNil(t, out[0].Result)
	assert.Equal(t, core.CategoryDessert, out[0].Result.Category)
	assert.Equal(t, RuleBlended, out[0].Labels[LabelRule].Value)
	assert.Equal(t, "2", out[0].Labels[LabelLexicalLevel].Value)

	_, err = (&Node{Arbiter: a}).Process(context.Background(), nil, []*core.Item{core.NewItem(core.Recipe{ID: 2})})
	assert.True(t, core.IsDataError(err))
}
