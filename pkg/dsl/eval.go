package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，声明覆盖规则可见的变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("name", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("struct_confidence", cel.DoubleType),
		cel.Variable("sweet_idx", cel.DoubleType),
		cel.Variable("savory_idx", cel.DoubleType),
		cel.Variable("lean_idx", cel.DoubleType),
		cel.Variable("hybrid_idx", cel.DoubleType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Vars 是覆盖规则的输入。
type Vars struct {
	ID               int64
	Name             string
	Text             string // 规范化后的 "name | tag | tag"
	Tags             []string
	StructConfidence float64
	SweetIdx         float64
	SavoryIdx        float64
	LeanIdx          float64
	HybridIdx        float64
}

func (v Vars) activation() map[string]any {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":                v.ID,
		"name":              v.Name,
		"text":              v.Text,
		"tags":              tags,
		"struct_confidence": v.StructConfidence,
		"sweet_idx":         v.SweetIdx,
		"savory_idx":        v.SavoryIdx,
		"lean_idx":          v.LeanIdx,
		"hybrid_idx":        v.HybridIdx,
	}
}

// Expr 是编译好的布尔 CEL 表达式，使用 CEL (Common Expression Language) 实现。
// CEL 具有类型安全、高性能、线程安全等特性，编译一次后可并发求值。
//
// 表达式语法（CEL 标准语法）：
//   - 正则：text.matches("\\b(smoothie|milkshake)\\b")
//   - 数值：struct_confidence < 90.0 / sweet_idx >= 0.5
//   - 逻辑：text.contains("punch") && lean_idx > 0.8
//   - 列表："cocktail" in tags
//
// 示例：
//   - `text.matches("\\bsmoothie\\b") && struct_confidence < 90.0` → 结构不够确定的奶昔类
//   - `id == 1083` → 单个菜谱
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式并检查返回类型为 bool。
func Compile(expr string) (*Expr, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

func (e *Expr) String() string { return e.src }

// Evaluate 对一条菜谱求值。
func (e *Expr) Evaluate(v Vars) (bool, error) {
	out, _, err := e.prg.Eval(v.activation())
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}
