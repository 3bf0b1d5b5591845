// Package mathx 提供分类与排名共用的数值工具：softmax、余弦相似度、熵、sigmoid、截断。
package mathx

import (
	"math"
	"sort"
)

// tiny 是范数与 softmax 分母的正则项，防止零向量除零。
const tiny = 1e-12

// Clamp 把 v 截断到 [lo, hi]。NaN 原样返回，由调用方检测。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 等价于 Clamp(v, 0, 1)。
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Dot 计算向量内积，长度不一致返回 0。
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm 计算 L2 范数。
func Norm(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Cosine 计算余弦相似度。范数加 1e-12 正则，零向量得到 0 而不是 NaN。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	return Dot(a, b) / ((Norm(a) + tiny) * (Norm(b) + tiny))
}

// Softmax 使用 max-subtraction 保证数值稳定。
func Softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	maxV := z[0]
	for _, v := range z[1:] {
		if v > maxV {
			maxV = v
		}
	}
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Sigmoid 是逻辑函数 1 / (1 + exp(-x))。
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// NormalizedEntropy 返回 H(p)/ln(n) ∈ [0,1]，p 为零的项贡献 0。
func NormalizedEntropy(p []float64) float64 {
	if len(p) < 2 {
		return 0
	}
	h := 0.0
	for _, v := range p {
		if v > 0 {
			h -= v * math.Log(v+tiny)
		}
	}
	return h / math.Log(float64(len(p)))
}

// TopTwo 返回最大值与次大值。
func TopTwo(p []float64) (first, second float64) {
	s := append([]float64(nil), p...)
	sort.Float64s(s)
	switch len(s) {
	case 0:
		return 0, 0
	case 1:
		return s[0], 0
	}
	return s[len(s)-1], s[len(s)-2]
}

// Round1 四舍五入到一位小数（置信度的展示精度）。
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
