package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/pipeline"
	"github.com/rushteam/recipekit/rank"
)

// Engine 是引擎配置文件（YAML）的顶层结构：
//
//	pipeline:
//	  name: recipe-classify
//	  nodes:
//	    - type: feature.extract
//	    - type: classify.prototype
//	      config:
//	        temperature: 0.9
//	    - type: classify.lexicon
//	    - type: classify.arbiter
//	      config:
//	        id_overrides: {12345: beverage}
//	rank:
//	  top_n: 20
//	  params:
//	    beverage: {kb: 20, kpop: 4, gamma: 0.7}
//
// 文件里没写的字段保留 Default() 的取值。
type Engine struct {
	Pipeline pipeline.Config `yaml:"pipeline" json:"pipeline"`
	Rank     rank.Config     `yaml:"rank" json:"rank"`
}

// Default 返回参考部署的引擎配置。
func Default() *Engine {
	return &Engine{
		Pipeline: DefaultPipeline(),
		Rank:     rank.DefaultConfig(),
	}
}

// LoadEngine 读取 YAML 引擎配置并叠加到默认值上；path 为空时直接返回默认值。
func LoadEngine(path string) (*Engine, error) {
	if path == "" {
		e := Default()
		return e, e.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config %s: %w", path, err)
	}
	e, err := ParseEngine(data)
	if err != nil {
		return nil, fmt.Errorf("engine config %s: %w", path, err)
	}
	return e, nil
}

// ParseEngine 解析 YAML 内容并校验。
func ParseEngine(data []byte) (*Engine, error) {
	e := Default()
	if err := yaml.Unmarshal(data, e); err != nil {
		return nil, core.NewConfigError(core.ModuleConfig, "", "parse engine yaml: %v", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate 校验字段约束、Node 类型是否已注册，以及每个类别是否都有排名常数。
// 原型与词典的完整性在构建 Pipeline 时由各组件检查。
func (e *Engine) Validate() error {
	if err := Validate(e); err != nil {
		return err
	}
	if len(e.Pipeline.Nodes) == 0 {
		return core.NewConfigError(core.ModuleConfig, "", "pipeline %q has no nodes", e.Pipeline.Name)
	}
	if err := ValidatePipelineConfig(&e.Pipeline); err != nil {
		return err
	}
	for _, cat := range core.Categories {
		if _, ok := e.Rank.Params[cat]; !ok {
			return core.NewConfigError(core.ModuleConfig, cat, "missing ranking params")
		}
	}
	return nil
}

// Marshal 以 YAML 导出配置（config 命令使用）。
func (e *Engine) Marshal() ([]byte, error) {
	return yaml.Marshal(e)
}
