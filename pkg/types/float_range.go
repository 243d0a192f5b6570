package types

// FloatRange 浮点数区间 [Min, Max]
// 用于随机循环间隔等配置
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Normalized 返回 Min <= Max 的区间（必要时交换）
func (r FloatRange) Normalized() FloatRange {
	if r.Min > r.Max {
		return FloatRange{Min: r.Max, Max: r.Min}
	}
	return r
}

// IsZero 区间是否为 [0, 0]
func (r FloatRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains 判断 v 是否落在闭区间内
func (r FloatRange) Contains(v float64) bool {
	n := r.Normalized()
	return v >= n.Min && v <= n.Max
}
