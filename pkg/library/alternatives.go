package library

import "fmt"

// AlternativePool 动作 → [主片段, 变体0, 变体1, ...]
//
// 只有注册了变体的动作才会出现在池中；其余动作直接走 Library 查询。
// 变体的键名约定为 "<action>-0", "<action>-1", ...
type AlternativePool struct {
	clips map[string][]*AnimationClip
}

// NewAlternativePool 创建空的变体池
func NewAlternativePool() *AlternativePool {
	return &AlternativePool{clips: make(map[string][]*AnimationClip)}
}

// VariantKey 返回动作的第 i 个变体键名
func VariantKey(action string, i int) string {
	return fmt.Sprintf("%s-%d", NormalizeAction(action), i)
}

// Build 根据主库和变体库重建变体池
//
// 对主库中的每个动作 k，若 variants 中存在 "k-0"，则依次收集 "k-0", "k-1", ...
// 直到第一个缺失的索引。主片段和变体都取字典序第一个方向上的片段。
func (p *AlternativePool) Build(lib, variants *Library) {
	p.Clear()
	if lib == nil || variants == nil {
		return
	}

	for _, action := range lib.Actions() {
		primary, ok := lib.FirstClip(action)
		if !ok {
			continue
		}

		var alternates []*AnimationClip
		for i := 0; ; i++ {
			clip, ok := variants.FirstClip(VariantKey(action, i))
			if !ok {
				break
			}
			alternates = append(alternates, clip)
		}
		if len(alternates) == 0 {
			continue
		}

		p.clips[action] = append([]*AnimationClip{primary}, alternates...)
	}
}

// Clear 清空变体池
func (p *AlternativePool) Clear() {
	p.clips = make(map[string][]*AnimationClip)
}

// Has 判断动作是否在池中
func (p *AlternativePool) Has(action string) bool {
	if p == nil {
		return false
	}
	_, ok := p.clips[NormalizeAction(action)]
	return ok
}

// Count 返回动作的候选数量（主片段 + 变体），不在池中返回 0
func (p *AlternativePool) Count(action string) int {
	if p == nil {
		return 0
	}
	return len(p.clips[NormalizeAction(action)])
}

// Len 返回池中动作数量
func (p *AlternativePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.clips)
}

// Resolve 按索引取出候选片段，索引会被约束到 [0, Count)
func (p *AlternativePool) Resolve(action string, index int) (*AnimationClip, bool) {
	if p == nil {
		return nil, false
	}
	list := p.clips[NormalizeAction(action)]
	if len(list) == 0 {
		return nil, false
	}
	index %= len(list)
	if index < 0 {
		index += len(list)
	}
	return list[index], true
}
