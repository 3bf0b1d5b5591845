package pipeline

import (
	"context"

	"github.com/rushteam/recipekit/core"
)

// Kind 用于标记 Node 类型，方便观测与编排（例如按阶段打点）。
type Kind string

const (
	KindFeature   Kind = "feature"   // 特征阶段：营养元组 -> 有界指数
	KindClassify  Kind = "classify"  // 打分阶段：结构分类 / 词典打分
	KindArbitrate Kind = "arbitrate" // 仲裁阶段：合并两路证据，产出最终结果
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，每个 Node 只填充 Item 上属于自己的字段。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RunContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
