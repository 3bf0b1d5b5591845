package core

import "sync"

// RunContext 承载一次批处理运行的上下文，贯穿整个 Pipeline 透传。
// Node 可能并发累加计数，因此由 mu 保护。
type RunContext struct {
	RunID string

	// Workers 是 Node 内部并发处理 Item 的上限，<= 0 表示不限制
	Workers int

	mu       sync.Mutex
	counters map[string]int
}

func NewRunContext(runID string, workers int) *RunContext {
	return &RunContext{
		RunID:    runID,
		Workers:  workers,
		counters: make(map[string]int),
	}
}

// Incr 累加运行级计数（例如被跳过的互动数）。
func (rctx *RunContext) Incr(key string, delta int) {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	if rctx.counters == nil {
		rctx.counters = make(map[string]int)
	}
	rctx.counters[key] += delta
}

// Count 读取运行级计数，不存在时为 0。
func (rctx *RunContext) Count(key string) int {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	return rctx.counters[key]
}
