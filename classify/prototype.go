package classify

import (
	"math"
	"slices"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pkg/mathx"
)

// logEps 防止 log(0)
const logEps = 1e-12

// Option 调整 Classifier 的修正表与扣分表，主要用于测试。
type Option func(*Classifier)

func WithCorrections(cs []Correction) Option {
	return func(c *Classifier) { c.corrections = cs }
}

func WithPenalties(ps []Penalty) Option {
	return func(c *Classifier) { c.penalties = ps }
}

// Classifier 是基于原型余弦相似度的结构分类器。
//
// 流程：
//  1. 与每个类别原型计算余弦相似度
//  2. 经混合矩阵得到基础 logit
//  3. 依次应用启发式修正表
//  4. 除以温度并加上 log 先验，softmax 得到 p_struct
//  5. 由 pmax、margin、熵与扣分项计算结构置信度
//
// 构造后只读，可并发使用。
type Classifier struct {
	archetypes  [core.NumCategories][]float64
	mixing      [core.NumCategories][core.NumCategories]float64
	logPriors   [core.NumCategories]float64
	temperature float64
	conf        ConfidenceConfig
	corrections []Correction
	penalties   []Penalty
}

// New 校验配置完整性后构建 Classifier；任一类别缺少原型、混合系数或先验时返回 ConfigurationError。
func New(cfg Config, opts ...Option) (*Classifier, error) {
	if cfg.Temperature <= 0 {
		return nil, core.NewConfigError(core.ModuleClassify, "", "temperature must be > 0, got %v", cfg.Temperature)
	}
	c := &Classifier{
		temperature: cfg.Temperature,
		conf:        cfg.Confidence,
		corrections: DefaultCorrections(),
		penalties:   DefaultPenalties(),
	}
	for i, cat := range core.Categories {
		proto, ok := cfg.Archetypes[cat]
		if !ok {
			return nil, core.NewConfigError(core.ModuleClassify, cat, "missing archetype")
		}
		c.archetypes[i] = proto.slice()

		row, ok := cfg.Mixing[cat]
		if !ok {
			return nil, core.NewConfigError(core.ModuleClassify, cat, "missing mixing row")
		}
		for j, other := range core.Categories {
			w, ok := row[other]
			if !ok {
				return nil, core.NewConfigError(core.ModuleClassify, cat, "missing mixing weight for %s", other)
			}
			c.mixing[i][j] = w
		}

		prior, ok := cfg.Priors[cat]
		if !ok || prior <= 0 {
			return nil, core.NewConfigError(core.ModuleClassify, cat, "prior must be > 0")
		}
		c.logPriors[i] = math.Log(prior + logEps)
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(cfg.DisabledCorrections) > 0 {
		known := make(map[string]bool, len(c.corrections))
		for _, cr := range c.corrections {
			known[cr.Name] = true
		}
		for _, name := range cfg.DisabledCorrections {
			if !known[name] {
				return nil, core.NewConfigError(core.ModuleClassify, "", "unknown correction %q", name)
			}
		}
		c.corrections = slices.DeleteFunc(slices.Clone(c.corrections), func(cr Correction) bool {
			return slices.Contains(cfg.DisabledCorrections, cr.Name)
		})
	}
	return c, nil
}

// Score 计算结构分数。FeatureVector 含非有限值时返回 DataError。
func (c *Classifier) Score(recipeID int64, fv core.FeatureVector) (core.StructuralScore, error) {
	if !fv.Finite() {
		return core.StructuralScore{}, core.NewDataError(core.ModuleClassify, recipeID, "non-finite feature vector")
	}
	v := []float64{fv.SweetIdx, fv.SavoryIdx, fv.LeanIdx}

	var sims [core.NumCategories]float64
	for i, proto := range c.archetypes {
		sims[i] = mathx.Cosine(v, proto)
	}

	var logits [core.NumCategories]float64
	for i := range logits {
		for j, s := range sims {
			logits[i] += c.mixing[i][j] * s
		}
	}

	var fired []string
	for _, cr := range c.corrections {
		if cr.When(fv) {
			for i, d := range cr.Delta {
				logits[i] += d
			}
			fired = append(fired, cr.Name)
		}
	}

	for i := range logits {
		logits[i] = logits[i]/c.temperature + c.logPriors[i]
	}

	var probs core.Probs
	copy(probs[:], mathx.Softmax(logits[:]))
	if !probs.Valid() {
		return core.StructuralScore{}, core.NewDataError(core.ModuleClassify, recipeID, "structural probabilities undefined")
	}

	return core.StructuralScore{
		Logits:     logits,
		Probs:      probs,
		Confidence: c.confidence(probs, fv),
		Rules:      fired,
	}, nil
}

func (c *Classifier) confidence(p core.Probs, fv core.FeatureVector) float64 {
	pmax, p2 := mathx.TopTwo(p[:])
	certainty := 1 - mathx.NormalizedEntropy(p[:])

	penalty := 0.0
	for _, pen := range c.penalties {
		if pen.When(fv) {
			penalty += pen.Amount
		}
	}

	raw := c.conf.WPMax*pmax + c.conf.WMargin*(pmax-p2) + c.conf.WCertainty*certainty - penalty
	conf := 100 * mathx.Sigmoid(c.conf.Slope*(raw-c.conf.Center))
	return mathx.Round1(mathx.Clamp(conf, 0, 100))
}
