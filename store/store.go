// Package store 提供 core.RankingStore 的实现，用于发布排名结果。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.RankingStore = store.NewMemoryStore()
//	var r core.RankingStore, _ = store.NewRedisStore(ctx, "localhost:6379", 0)
package store
