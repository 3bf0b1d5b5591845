package core

import "github.com/rushteam/recipekit/pkg/utils"

// StructuralScore 是原型分类器的输出。
type StructuralScore struct {
	Logits     [NumCategories]float64 `json:"logits"`
	Probs      Probs                  `json:"probs"`
	Confidence float64                `json:"confidence"` // [0,100]
	Rules      []string               `json:"rules,omitempty"`
}

// LexicalScore 是词典打分器的输出。
type LexicalScore struct {
	Text   string                 `json:"text"`
	Strong [NumCategories]int     `json:"strong"` // STRONG 命中（0/1）
	Soft   [NumCategories]int     `json:"soft"`   // SOFT 命中次数
	Logits [NumCategories]float64 `json:"logits"`
	Probs  Probs                  `json:"probs"`
	// Vote 是按 3·STRONG + SOFT 投票得到的词典类别，Silent 时为空
	Vote Category `json:"vote,omitempty"`
	// Level 是 Vote 类别上的证据强度：0 无证据，1 仅 SOFT，2 有 STRONG，3 STRONG 且 SOFT >= 2
	Level  int  `json:"level"`
	Silent bool `json:"silent"`
}

// Item 是分类链路中的统一承载结构：一个 Item 对应一个菜谱，
// 各 Node 依次填充特征、结构分数、词典分数与最终结果。
// Labels 用于解释。
type Item struct {
	Recipe     Recipe
	Features   *FeatureVector
	Structural *StructuralScore
	Lexical    *LexicalScore
	Result     *ClassificationResult
	Labels     map[string]utils.Label
}

func NewItem(r Recipe) *Item {
	return &Item{
		Recipe: r,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
