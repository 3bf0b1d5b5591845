package arbiter

import "github.com/rushteam/recipekit/core"

// Decision 是规则表的输出：Forced | StructuralWin | Blended 三选一。
type Decision interface {
	Kind() core.DecisionKind
}

// Forced 直接指定类别与分布，跳过两路证据的合并。
type Forced struct {
	Category      core.Category
	Probs         core.Probs
	MinConfidence float64
	Exception     string // 例如 "id:1083" / "pattern:smoothie_milkshake"
}

// StructuralWin 信任结构分类；Agree 为真时按 Weight 吸收 p_nlp。
type StructuralWin struct {
	Agree  bool
	Weight float64
}

// Blended 按权重合并 p_struct 与 p_nlp 后再归一化。
type Blended struct {
	WStruct float64
	WNLP    float64
}

func (Forced) Kind() core.DecisionKind        { return core.DecisionForced }
func (StructuralWin) Kind() core.DecisionKind { return core.DecisionStructuralWin }
func (Blended) Kind() core.DecisionKind       { return core.DecisionBlended }

// Input 是仲裁一个菜谱所需的全部证据。
type Input struct {
	Recipe     core.Recipe
	Features   core.FeatureVector
	Structural core.StructuralScore
	Lexical    core.LexicalScore
}

// Agree 表示词典投票与结构 argmax 是否一致；词典沉默时为 false。
func (in Input) Agree() bool {
	return !in.Lexical.Silent && in.Lexical.Vote == in.Structural.Probs.Top()
}

// Rule 是规则表中的一行。Decide 返回 ok=false 表示不适用，继续下一条。
type Rule struct {
	Name   string
	Decide func(in Input) (d Decision, ok bool, err error)
}
