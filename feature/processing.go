package feature

import (
	"math"

	"github.com/rushteam/recipekit/core"
)

// Sanitize 把缺失或畸形的营养字段置零，返回清洗后的元组和被置零的字段名。
// 原始数据里解析失败的营养串同样按零处理，因此这是抽取前的统一入口。
func Sanitize(n core.Nutrition) (core.Nutrition, []string) {
	var fixed []string
	fields := []struct {
		name string
		v    *float64
	}{
		{"calories", &n.Calories},
		{"fat", &n.Fat},
		{"sugar", &n.Sugar},
		{"sodium", &n.Sodium},
		{"protein", &n.Protein},
		{"saturated_fat", &n.SaturatedFat},
		{"carbohydrates", &n.Carbohydrates},
	}
	for _, f := range fields {
		if !usable(*f.v) {
			*f.v = 0
			fixed = append(fixed, f.name)
		}
	}
	return n, fixed
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
