package main

import (
	"fmt"
	"os"

	"github.com/rushteam/recipekit/core"
)

// 退出码
const (
	ExitSuccess     = 0
	ExitDataError   = 1 // 输入数据导致的失败
	ExitConfigError = 2 // 配置或运行时错误
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case core.IsDataError(err):
		return ExitDataError
	default:
		return ExitConfigError
	}
}
