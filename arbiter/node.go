package arbiter

import (
	"context"
	"strconv"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
	"github.com/rushteam/recipekit/pkg/utils"
)

// 解释标签
const (
	LabelRule         = "arbiter_rule"
	LabelLexicalLevel = "lexical_level"
)

// Node 合并结构与词典两路证据，为每个 Item 填充 Result。
type Node struct {
	Arbiter *Arbiter
}

func (n *Node) Name() string        { return "classify.arbiter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindArbitrate }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Arbiter == nil {
		return nil, core.NewConfigError(core.ModuleArbiter, "", "arbiter not configured")
	}
	err := pipeline.ForEach(ctx, pipeline.Workers(rctx), items, func(_ context.Context, it *core.Item) error {
		if it.Features == nil || it.Structural == nil || it.Lexical == nil {
			return core.NewDataError(core.ModuleArbiter, it.Recipe.ID, "missing upstream scores")
		}
		res, err := n.Arbiter.Resolve(Input{
			Recipe:     it.Recipe,
			Features:   *it.Features,
			Structural: *it.Structural,
			Lexical:    *it.Lexical,
		})
		if err != nil {
			return err
		}
		it.Result = &res
		it.PutLabel(LabelRule, utils.Label{Value: res.Rule, Source: "arbiter"})
		it.PutLabel(LabelLexicalLevel, utils.Label{Value: strconv.Itoa(it.Lexical.Level), Source: "lexicon"})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
