// Package builders 注册内置分类 Node 的构建器。入口处 import _ 本包即可按配置构建 Pipeline。
//
// 每个构建器先取组件 DefaultConfig()，再用 Node 配置覆盖，最后交给组件构造函数校验。
package builders

import (
	"github.com/rushteam/recipekit/arbiter"
	"github.com/rushteam/recipekit/classify"
	"github.com/rushteam/recipekit/config"
	"github.com/rushteam/recipekit/feature"
	"github.com/rushteam/recipekit/lexicon"
	"github.com/rushteam/recipekit/pipeline"
)

func init() {
	config.Register("feature.extract", BuildExtractNode)
	config.Register("classify.prototype", BuildPrototypeNode)
	config.Register("classify.lexicon", BuildLexiconNode)
	config.Register("classify.arbiter", BuildArbiterNode)
}

func BuildExtractNode(raw map[string]any) (pipeline.Node, error) {
	cfg := feature.DefaultConfig()
	if err := config.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	return &feature.ExtractNode{Extractor: feature.NewExtractor(cfg)}, nil
}

func BuildPrototypeNode(raw map[string]any) (pipeline.Node, error) {
	cfg := classify.DefaultConfig()
	if err := config.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	c, err := classify.New(cfg)
	if err != nil {
		return nil, err
	}
	return &classify.PrototypeNode{Classifier: c}, nil
}

func BuildLexiconNode(raw map[string]any) (pipeline.Node, error) {
	cfg := lexicon.DefaultConfig()
	if err := config.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	s, err := lexicon.New(cfg)
	if err != nil {
		return nil, err
	}
	return &lexicon.Node{Scorer: s}, nil
}

func BuildArbiterNode(raw map[string]any) (pipeline.Node, error) {
	cfg := arbiter.DefaultConfig()
	if err := config.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	a, err := arbiter.New(cfg)
	if err != nil {
		return nil, err
	}
	return &arbiter.Node{Arbiter: a}, nil
}
