package arbiter

import (
	"fmt"
	"math"
	"slices"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pkg/dsl"
	"github.com/rushteam/recipekit/pkg/mathx"
)

// 规则名，写入 ClassificationResult.Rule
const (
	RuleIDOverride      = "id_override"
	RulePatternOverride = "pattern_override"
	RuleStructuralWin   = "structural_win"
	RuleBlended         = "blended"
)

type pattern struct {
	rule PatternRule
	expr *dsl.Expr
}

// Arbiter 按优先级依次尝试规则表：
//
//	id_override -> pattern_override -> structural_win -> blended
//
// 第一条适用的规则给出 Decision，随后统一计算 p_final、类别与置信度。
// 构造后只读，可并发使用。
type Arbiter struct {
	cfg       Config
	canonical [core.NumCategories]core.Probs
	patterns  []pattern
	rules     []Rule
}

// New 校验并编译配置：类别缺少典型分布、覆盖规则指向未知类别或 CEL 编译失败都返回 ConfigurationError。
func New(cfg Config) (*Arbiter, error) {
	if cfg.StructThreshold <= 0 {
		return nil, core.NewConfigError(core.ModuleArbiter, "", "struct_threshold must be > 0")
	}
	a := &Arbiter{cfg: cfg}
	for i, cat := range core.Categories {
		d, ok := cfg.Canonical[cat]
		if !ok || !d.Probs().Valid() {
			return nil, core.NewConfigError(core.ModuleArbiter, cat, "missing canonical distribution")
		}
		a.canonical[i] = d.Probs().Normalize()
	}
	for id, cat := range cfg.IDOverrides {
		if !cat.Valid() {
			return nil, core.NewConfigError(core.ModuleArbiter, cat, "id override %d: unknown category", id)
		}
	}
	for _, pr := range cfg.PatternOverrides {
		if !pr.Category.Valid() {
			return nil, core.NewConfigError(core.ModuleArbiter, pr.Category, "pattern %q: unknown category", pr.Name)
		}
		if !pr.Distribution.IsZero() && !pr.Distribution.Probs().Valid() {
			return nil, core.NewConfigError(core.ModuleArbiter, pr.Category, "pattern %q: invalid distribution", pr.Name)
		}
		expr, err := dsl.Compile(pr.When)
		if err != nil {
			return nil, core.NewConfigError(core.ModuleArbiter, pr.Category, "pattern %q: %v", pr.Name, err)
		}
		a.patterns = append(a.patterns, pattern{rule: pr, expr: expr})
	}
	a.rules = []Rule{
		{Name: RuleIDOverride, Decide: a.idOverride},
		{Name: RulePatternOverride, Decide: a.patternOverride},
		{Name: RuleStructuralWin, Decide: a.structuralWin},
		{Name: RuleBlended, Decide: a.blended},
	}
	return a, nil
}

// Rules 返回规则表的副本（按优先级排序）。
func (a *Arbiter) Rules() []Rule { return slices.Clone(a.rules) }

// Decide 返回第一条适用规则的名称与 Decision。
func (a *Arbiter) Decide(in Input) (string, Decision, error) {
	for _, r := range a.rules {
		d, ok, err := r.Decide(in)
		if err != nil {
			return r.Name, nil, err
		}
		if ok {
			return r.Name, d, nil
		}
	}
	// blended 总是适用，走到这里说明规则表被改坏了
	return "", nil, fmt.Errorf("no arbiter rule applied")
}

func (a *Arbiter) idOverride(in Input) (Decision, bool, error) {
	cat, ok := a.cfg.IDOverrides[in.Recipe.ID]
	if !ok {
		return nil, false, nil
	}
	return Forced{
		Category:      cat,
		Probs:         a.canonical[cat.Index()],
		MinConfidence: a.cfg.ForcedMinConfidence,
		Exception:     fmt.Sprintf("id:%d", in.Recipe.ID),
	}, true, nil
}

func (a *Arbiter) patternOverride(in Input) (Decision, bool, error) {
	if len(a.patterns) == 0 {
		return nil, false, nil
	}
	vars := dsl.Vars{
		ID:               in.Recipe.ID,
		Name:             in.Recipe.Name,
		Text:             in.Lexical.Text,
		Tags:             in.Recipe.Tags,
		StructConfidence: in.Structural.Confidence,
		SweetIdx:         in.Features.SweetIdx,
		SavoryIdx:        in.Features.SavoryIdx,
		LeanIdx:          in.Features.LeanIdx,
		HybridIdx:        in.Features.HybridIdx,
	}
	for _, p := range a.patterns {
		hit, err := p.expr.Evaluate(vars)
		if err != nil {
			return nil, false, core.NewDataError(core.ModuleArbiter, in.Recipe.ID, "pattern %q: %v", p.rule.Name, err)
		}
		if !hit {
			continue
		}
		probs := a.canonical[p.rule.Category.Index()]
		if !p.rule.Distribution.IsZero() {
			probs = p.rule.Distribution.Probs().Normalize()
		}
		return Forced{
			Category:      p.rule.Category,
			Probs:         probs,
			MinConfidence: p.rule.MinConfidence,
			Exception:     "pattern:" + p.rule.Name,
		}, true, nil
	}
	return nil, false, nil
}

func (a *Arbiter) structuralWin(in Input) (Decision, bool, error) {
	if in.Structural.Confidence < a.cfg.StructThreshold && !in.Lexical.Silent {
		return nil, false, nil
	}
	if !in.Agree() {
		return StructuralWin{}, true, nil
	}
	return StructuralWin{Agree: true, Weight: a.cfg.AgreeWeights.At(in.Lexical.Level)}, true, nil
}

func (a *Arbiter) blended(in Input) (Decision, bool, error) {
	// 结构置信度越低，词典权重越大
	w := a.cfg.BlendWeights.At(in.Lexical.Level) * (1 + (a.cfg.StructThreshold-in.Structural.Confidence)/a.cfg.StructThreshold)
	if in.Features.HybridIdx > a.cfg.HybridThreshold {
		w *= a.cfg.HybridBoost
	}
	return Blended{WStruct: 1, WNLP: w}, true, nil
}

// Resolve 对一个菜谱做完整仲裁。任何分布无定义（NaN 等）返回带菜谱 ID 的 DataError。
func (a *Arbiter) Resolve(in Input) (core.ClassificationResult, error) {
	id := in.Recipe.ID
	ps, pn := in.Structural.Probs, in.Lexical.Probs
	if !ps.Valid() {
		return core.ClassificationResult{}, core.NewDataError(core.ModuleArbiter, id, "structural probabilities undefined")
	}
	if !pn.Valid() {
		return core.ClassificationResult{}, core.NewDataError(core.ModuleArbiter, id, "lexical probabilities undefined")
	}
	if math.IsNaN(in.Structural.Confidence) {
		return core.ClassificationResult{}, core.NewDataError(core.ModuleArbiter, id, "structural confidence undefined")
	}

	rule, d, err := a.Decide(in)
	if err != nil {
		return core.ClassificationResult{}, err
	}

	res := core.ClassificationResult{
		RecipeID:         id,
		Name:             in.Recipe.Name,
		PStruct:          ps,
		PNLP:             pn,
		StructConfidence: in.Structural.Confidence,
		Decision:         d.Kind(),
		Rule:             rule,
	}

	switch d := d.(type) {
	case Forced:
		res.PFinal = d.Probs
		res.Category = d.Category
		res.Confidence = math.Max(d.MinConfidence, a.calibrate(d.Probs))
		res.ExceptionHit = true
		res.Exception = d.Exception
	case StructuralWin:
		res.PFinal = ps
		if d.Agree && d.Weight > 0 {
			res.PFinal = blend(ps, pn, 1, d.Weight)
		}
		res.Category = res.PFinal.Top()
		res.Confidence = a.adjust(in, a.calibrate(res.PFinal))
	case Blended:
		res.PFinal = blend(ps, pn, d.WStruct, d.WNLP)
		res.Category = res.PFinal.Top()
		res.Confidence = a.adjust(in, a.calibrate(res.PFinal))
	default:
		return core.ClassificationResult{}, fmt.Errorf("unknown decision %T", d)
	}

	if !res.PFinal.Valid() || math.IsNaN(res.Confidence) {
		return core.ClassificationResult{}, core.NewDataError(core.ModuleArbiter, id, "final distribution undefined")
	}
	res.Confidence = mathx.Round1(mathx.Clamp(res.Confidence, 0, 100))
	return res, nil
}

func blend(ps, pn core.Probs, ws, wn float64) core.Probs {
	var out core.Probs
	for i := range out {
		out[i] = ws*ps[i] + wn*pn[i]
	}
	return out.Normalize()
}

// calibrate 由分布的 pmax、margin 与熵给出 [0,100] 的置信度。
func (a *Arbiter) calibrate(p core.Probs) float64 {
	c := a.cfg.Calibration
	pmax, p2 := mathx.TopTwo(p[:])
	certainty := 1 - mathx.NormalizedEntropy(p[:])
	raw := c.WPMax*pmax + c.WMargin*(pmax-p2) + c.WCertainty*certainty
	return 100 * mathx.Sigmoid(c.Slope*(raw-c.Center))
}

// adjust 叠加同意加分或分歧扣分；词典沉默时不调整。
func (a *Arbiter) adjust(in Input, conf float64) float64 {
	lex := in.Lexical
	if lex.Silent {
		return conf
	}
	if !in.Agree() {
		return conf - a.cfg.DisagreePenalty.At(lex.Level)
	}
	pmax, _ := mathx.TopTwo(lex.Probs[:])
	if in.Structural.Confidence >= a.cfg.BonusMinStruct && pmax >= a.cfg.BonusMinLexical {
		return conf + a.cfg.AgreeBonus.At(lex.Level)
	}
	return conf
}
