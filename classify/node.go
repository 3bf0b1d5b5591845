package classify

import (
	"context"
	"strings"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
	"github.com/rushteam/recipekit/pkg/utils"
)

// LabelCorrections 记录命中的启发式修正。
const LabelCorrections = "struct_rules"

// PrototypeNode 为每个 Item 填充 Structural。需要 feature.extract 先运行。
type PrototypeNode struct {
	Classifier *Classifier
}

func (n *PrototypeNode) Name() string        { return "classify.prototype" }
func (n *PrototypeNode) Kind() pipeline.Kind { return pipeline.KindClassify }

func (n *PrototypeNode) Process(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Classifier == nil {
		return nil, core.NewConfigError(core.ModuleClassify, "", "classifier not configured")
	}
	err := pipeline.ForEach(ctx, pipeline.Workers(rctx), items, func(_ context.Context, it *core.Item) error {
		if it.Features == nil {
			return core.NewDataError(core.ModuleClassify, it.Recipe.ID, "missing features")
		}
		score, err := n.Classifier.Score(it.Recipe.ID, *it.Features)
		if err != nil {
			return err
		}
		it.Structural = &score
		if len(score.Rules) > 0 {
			it.PutLabel(LabelCorrections, utils.Label{Value: strings.Join(score.Rules, ","), Source: "classify"})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
