package feature

import (
	"context"
	"strings"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
	"github.com/rushteam/recipekit/pkg/utils"
)

// LabelSanitized 记录被置零的营养字段，便于追查数据质量。
const LabelSanitized = "sanitized"

// ExtractNode 为每个 Item 填充 Features。
type ExtractNode struct {
	Extractor *Extractor
}

func (n *ExtractNode) Name() string        { return "feature.extract" }
func (n *ExtractNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *ExtractNode) Process(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	ext := n.Extractor
	if ext == nil {
		ext = NewExtractor(DefaultConfig())
	}
	err := pipeline.ForEach(ctx, pipeline.Workers(rctx), items, func(_ context.Context, it *core.Item) error {
		out := ext.Extract(it.Recipe.Nutrition)
		if !out.Vector.Finite() {
			return core.NewDataError(core.ModuleFeature, it.Recipe.ID, "non-finite feature vector")
		}
		fv := out.Vector
		it.Features = &fv
		if len(out.Sanitized) > 0 {
			lbl := utils.Label{Value: strings.Join(out.Sanitized, ","), Source: "feature"}
			it.PutLabel(LabelSanitized, lbl)
			if rctx != nil {
				rctx.Incr(LabelSanitized, 1)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
