package config

import (
	"sort"
	"sync"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
)

// 使用配置驱动时，需在入口处 import _ "github.com/rushteam/recipekit/config/builders"
// 以触发内置 Node（feature.extract、classify.prototype、classify.lexicon、classify.arbiter）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在 init 中调用，例如：func init() { config.Register("classify.lexicon", BuildLexiconNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验所有 node 类型均已注册；未注册时错误里带上已支持列表。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, nc := range cfg.Nodes {
		if _, ok := defaultBuilders[nc.Type]; !ok {
			types := make([]string, 0, len(defaultBuilders))
			for t := range defaultBuilders {
				types = append(types, t)
			}
			sort.Strings(types)
			return core.NewConfigError(core.ModuleConfig, "", "unsupported node type %q (supported: %v)", nc.Type, types)
		}
	}
	return nil
}

// DefaultPipeline 是参考部署的分类链路：抽取 → 结构分类 → 词典 → 仲裁。
// 各 Node 不带配置，取组件默认值。
func DefaultPipeline() pipeline.Config {
	return pipeline.Config{
		Name: "recipe-classify",
		Nodes: []pipeline.NodeConfig{
			{Type: "feature.extract"},
			{Type: "classify.prototype"},
			{Type: "classify.lexicon"},
			{Type: "classify.arbiter"},
		},
	}
}
