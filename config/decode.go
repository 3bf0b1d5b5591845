package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/recipekit/core"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 按 validate 标签校验结构体，失败时返回 ConfigurationError。
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return core.NewConfigError(core.ModuleConfig, "", "%s", strings.Join(msgs, "; "))
	}
	return core.NewConfigError(core.ModuleConfig, "", "%v", err)
}

// Decode 把 Node 配置（YAML 解析出的 map）叠加到 out 上：out 应先填好默认值，
// raw 中出现的字段覆盖默认值，map 字段按 key 合并，列表整体替换。解码后执行 Validate。
func Decode(raw map[string]any, out any) error {
	if len(raw) > 0 {
		buf, err := yaml.Marshal(raw)
		if err != nil {
			return core.NewConfigError(core.ModuleConfig, "", "encode node config: %v", err)
		}
		if err := yaml.Unmarshal(buf, out); err != nil {
			return core.NewConfigError(core.ModuleConfig, "", "decode node config: %v", err)
		}
	}
	return Validate(out)
}
