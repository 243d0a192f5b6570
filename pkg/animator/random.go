package animator

import (
	"math/rand"
)

// Random 均匀分布随机数来源
type Random interface {
	// Intn 返回 [0, n) 内的整数；n <= 0 时返回 0
	Intn(n int) int

	// Range 返回 [min, max] 内的浮点数
	Range(min, max float64) float64
}

// RandSource 基于 math/rand 的 Random 实现
// 相同种子产生相同序列，测试中用于得到确定的播放结果
type RandSource struct {
	r *rand.Rand
}

// NewRandom 使用给定种子创建随机源
func NewRandom(seed int64) *RandSource {
	return &RandSource{r: rand.New(rand.NewSource(seed))}
}

// Intn 实现 Random
func (s *RandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// Range 实现 Random
func (s *RandSource) Range(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	if max == min {
		return min
	}
	return min + s.r.Float64()*(max-min)
}
