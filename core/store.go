package core

import "context"

// RankingStore 是排名结果持久化的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 核心计算不依赖它；只有调用方在排名完成后发布结果时使用
//
// 实现：
//   - store.MemoryStore 实现此接口（测试/本地运行）
//   - store.RedisStore 实现此接口（生产）
type RankingStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ZAdd 向有序集合添加成员（每个 category:season 一个集合，score 为 Final）
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取有序集合成员
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// HSet 写入 Hash 字段（条目明细）
	HSet(ctx context.Context, key, field string, value []byte) error

	// HGetAll 读取整个 Hash
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)

	// Delete 删除 key（发布前清空旧榜单）
	Delete(ctx context.Context, keys ...string) error

	// Close 关闭连接/释放资源
	Close() error
}
