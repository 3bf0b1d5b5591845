package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recipekit/core"
)

// Pipeline 把分类逻辑拆成可组合的 Node 链：feature -> prototype -> lexicon -> arbiter。
type Pipeline struct {
	Nodes []Node

	// Hooks 在每个 Node 完成后调用（用于日志与指标），可为空
	Hooks []Hook
}

// Hook 观察单个 Node 的执行结果：输入/输出 Item 数与耗时。
type Hook func(node Node, in, out int, elapsed time.Duration, err error)

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		elapsed := time.Since(start)
		for _, h := range p.Hooks {
			h(node, len(cur), len(next), elapsed, err)
		}
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// ForEach 并发地对 items 逐个执行 fn，最多 workers 个并发（<= 0 不限制）。
// fn 只应写入自己的 Item，输出顺序与输入一致；任一 fn 出错即取消其余任务并返回首个错误。
func ForEach(ctx context.Context, workers int, items []*core.Item, fn func(ctx context.Context, it *core.Item) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, it)
		})
	}
	return g.Wait()
}

// Workers 返回运行上下文里的并发上限。
func Workers(rctx *core.RunContext) int {
	if rctx == nil {
		return 0
	}
	return rctx.Workers
}
