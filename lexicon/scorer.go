package lexicon

import (
	"regexp"
	"strings"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pkg/mathx"
)

// 词典证据强度
const (
	LevelSilent = 0 // 无命中
	LevelSoft   = 1 // 仅 SOFT
	LevelStrong = 2 // 有 STRONG
	LevelFull   = 3 // STRONG 且 SOFT >= 2
)

type compiled struct {
	strong *regexp.Regexp // nil 表示该类别没有 STRONG 词
	soft   *regexp.Regexp
}

// Scorer 基于 STRONG/SOFT 词典给出 p_nlp。
// 每个类别的词典在构造时编译为一个联合正则，构造后只读。
type Scorer struct {
	cfg  Config
	sets [core.NumCategories]compiled
}

// New 编译词典。缺少类别词典或正则非法时返回 ConfigurationError。
func New(cfg Config) (*Scorer, error) {
	s := &Scorer{cfg: cfg}
	for i, cat := range core.Categories {
		lex, ok := cfg.Lexicons[cat]
		if !ok {
			return nil, core.NewConfigError(core.ModuleLexicon, cat, "missing lexicon")
		}
		if len(lex.Strong) == 0 && len(lex.Soft) == 0 {
			return nil, core.NewConfigError(core.ModuleLexicon, cat, "empty lexicon")
		}
		strong, err := union(lex.Strong)
		if err != nil {
			return nil, core.NewConfigError(core.ModuleLexicon, cat, "strong patterns: %v", err)
		}
		soft, err := union(lex.Soft)
		if err != nil {
			return nil, core.NewConfigError(core.ModuleLexicon, cat, "soft patterns: %v", err)
		}
		s.sets[i] = compiled{strong: strong, soft: soft}
	}
	return s, nil
}

func union(patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)(?:` + strings.Join(patterns, "|") + `)`)
}

// Score 对菜谱名与 tags 打分。
func (s *Scorer) Score(name string, tags []string) core.LexicalScore {
	return s.ScoreText(Text(name, tags))
}

// ScoreText 对已规范化的文本打分。
func (s *Scorer) ScoreText(text string) core.LexicalScore {
	out := core.LexicalScore{Text: text}
	hits := 0
	for i, set := range s.sets {
		if set.strong != nil && set.strong.MatchString(text) {
			out.Strong[i] = 1
		}
		if set.soft != nil {
			out.Soft[i] = len(set.soft.FindAllStringIndex(text, -1))
		}
		out.Logits[i] = s.cfg.StrongWeight*float64(out.Strong[i]) + s.cfg.SoftWeight*float64(out.Soft[i]) + s.cfg.Bias
		hits += out.Strong[i] + out.Soft[i]
	}
	copy(out.Probs[:], mathx.Softmax(out.Logits[:]))

	if hits == 0 {
		out.Silent = true
		out.Level = LevelSilent
		return out
	}

	// 投票：STRONG 记 3 票，SOFT 每次命中记 1 票；平局取类别顺序靠前者
	vote := 0
	best := -1
	for i := range s.sets {
		v := 3*out.Strong[i] + out.Soft[i]
		if v > best {
			best, vote = v, i
		}
	}
	out.Vote = core.Categories[vote]
	out.Level = level(out.Strong[vote], out.Soft[vote])
	return out
}

func level(strong, soft int) int {
	switch {
	case strong >= 1 && soft >= 2:
		return LevelFull
	case strong >= 1:
		return LevelStrong
	case soft >= 1:
		return LevelSoft
	}
	return LevelSilent
}
