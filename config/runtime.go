package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/recipekit/pkg/logging"
)

// EnvPrefix 是运行时配置环境变量的前缀。
// RECIPEKIT_WORKERS -> workers，RECIPEKIT_LOG__LEVEL -> log.level（双下划线表示嵌套）。
const EnvPrefix = "RECIPEKIT_"

// Redis 是排名发布目标；Addr 为空时不发布。
type Redis struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db" validate:"gte=0"`
}

// Runtime 是命令行运行参数，与引擎配置（算法常数）分开。
type Runtime struct {
	Log logging.Config `koanf:"log"`

	// Workers 分类与排名的并发上限，0 表示不限制
	Workers int `koanf:"workers" validate:"gte=0"`
	// TopN > 0 时覆盖引擎配置里的 rank.top_n
	TopN int `koanf:"top_n" validate:"gte=0"`
	// EngineFile 引擎 YAML 路径，为空使用内置默认值
	EngineFile string `koanf:"engine_file"`

	Redis Redis `koanf:"redis"`

	// MetricsFile 非空时在运行结束后写出 Prometheus textfile
	MetricsFile string `koanf:"metrics_file"`
}

func DefaultRuntime() Runtime {
	return Runtime{
		Log:     logging.Config{Level: "info", Format: "json"},
		Workers: 8,
	}
}

// LoadRuntime 按优先级叠加：结构体默认值 < YAML 文件（path 非空时）< RECIPEKIT_ 环境变量。
func LoadRuntime(path string) (*Runtime, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultRuntime(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("runtime config %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load runtime config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	rt := &Runtime{}
	if err := k.Unmarshal("", rt); err != nil {
		return nil, fmt.Errorf("unmarshal runtime config: %w", err)
	}
	if err := Validate(rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
