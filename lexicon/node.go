package lexicon

import (
	"context"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
)

// Node 为每个 Item 填充 Lexical。
type Node struct {
	Scorer *Scorer
}

func (n *Node) Name() string        { return "classify.lexicon" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindClassify }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil {
		return nil, core.NewConfigError(core.ModuleLexicon, "", "scorer not configured")
	}
	err := pipeline.ForEach(ctx, pipeline.Workers(rctx), items, func(_ context.Context, it *core.Item) error {
		score := n.Scorer.Score(it.Recipe.Name, it.Recipe.Tags)
		it.Lexical = &score
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
