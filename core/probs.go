package core

import "math"

// Probs 是按 Categories 顺序索引的概率向量。
type Probs [NumCategories]float64

func (p Probs) Sum() float64 {
	s := 0.0
	for _, v := range p {
		s += v
	}
	return s
}

// Valid 要求所有值有限、非负且总和为正。
func (p Probs) Valid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return p.Sum() > 0
}

// Argmax 返回最大值的下标；平局取 Categories 中靠前者。
func (p Probs) Argmax() int {
	best := 0
	for i := 1; i < NumCategories; i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

// Top 返回最大概率对应的类别。
func (p Probs) Top() Category { return Categories[p.Argmax()] }

// Normalize 归一化为和为 1 的分布；总和非正时原样返回。
func (p Probs) Normalize() Probs {
	s := p.Sum()
	if s <= 0 {
		return p
	}
	var out Probs
	for i, v := range p {
		out[i] = v / s
	}
	return out
}
