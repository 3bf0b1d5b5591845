package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 携带定位上下文（RecipeID / Category / Season），调用方无需重试即可诊断
//
// 使用场景：
//   - INVALID_DATA：非有限数值导致指数或概率无定义（DataError）
//   - INVALID_CONFIG：类别缺少原型、词典或排名参数（ConfigurationError）
//   - NOT_FOUND：存储层读回榜单时条目缺失
type DomainError struct {
	Code     string   // 错误代码（如 "INVALID_DATA"）
	Message  string   // 错误消息
	Module   string   // 模块名称（如 "feature", "arbiter", "rank"）
	RecipeID int64    // 出错的菜谱 ID（0 表示无）
	Category Category // 出错的类别（可选）
	Season   Season   // 出错的季节（可选）
}

func (e *DomainError) Error() string {
	msg := e.Module + ": " + e.Message
	if e.RecipeID != 0 {
		msg += fmt.Sprintf(" (recipe=%d)", e.RecipeID)
	}
	if e.Category != "" {
		msg += fmt.Sprintf(" (category=%s)", e.Category)
	}
	if e.Season != "" {
		msg += fmt.Sprintf(" (season=%s)", e.Season)
	}
	return msg
}

// GetDomainError 沿错误链查找 DomainError，找不到返回 nil。
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewDataError 创建带菜谱 ID 的数据错误。
func NewDataError(module string, recipeID int64, format string, args ...any) *DomainError {
	return &DomainError{
		Module:   module,
		Code:     ErrorCodeInvalidData,
		Message:  fmt.Sprintf(format, args...),
		RecipeID: recipeID,
	}
}

// NewConfigError 创建配置错误；category 可为空。
func NewConfigError(module string, category Category, format string, args ...any) *DomainError {
	return &DomainError{
		Module:   module,
		Code:     ErrorCodeInvalidConfig,
		Message:  fmt.Sprintf(format, args...),
		Category: category,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeInvalidData   = "INVALID_DATA"   // 输入数据无效
	ErrorCodeInvalidConfig = "INVALID_CONFIG" // 配置缺失或无效
)

// 模块名称常量
const (
	ModuleFeature  = "feature"
	ModuleClassify = "classify"
	ModuleLexicon  = "lexicon"
	ModuleArbiter  = "arbiter"
	ModuleRank     = "rank"
	ModuleStore    = "store"
	ModuleConfig   = "config"
)

func hasCode(err error, code string) bool {
	if de := GetDomainError(err); de != nil {
		return de.Code == code
	}
	return false
}

// IsDataError 检查错误是否为 INVALID_DATA
func IsDataError(err error) bool { return hasCode(err, ErrorCodeInvalidData) }

// IsConfigError 检查错误是否为 INVALID_CONFIG
func IsConfigError(err error) bool { return hasCode(err, ErrorCodeInvalidConfig) }

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }
