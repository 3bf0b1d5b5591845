// Package recipekit 是菜谱分类与季节排名工具包。
//
// 设计要点：
// - Pipeline-first: 分类逻辑通过 Node 串联（feature.extract → classify.prototype → classify.lexicon → classify.arbiter）
// - Labels-first: 每个 Item 携带可解释的 labels（命中的修正规则、仲裁分支、词典证据强度）
// - 配置驱动: 原型、词典、覆盖规则与排名常数都是构造时传入的配置，核心包没有可变全局状态
// - 排名: 季节基线 → 贝叶斯收缩 Q × 热度权重 → 每个 (类别, 季节) Top N
package recipekit

import "github.com/rushteam/recipekit/pipeline"

// 轻量 facade：便于直接 import "recipekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFeature   = pipeline.KindFeature
	KindClassify  = pipeline.KindClassify
	KindArbitrate = pipeline.KindArbitrate
)
