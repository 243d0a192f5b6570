// Package events 提供动画驱动器使用的回调注册表
//
// FrameEventRegistry 负责 (动作, 方向, 帧) → 回调 的映射，
// ActionSignal 负责动作开始/结束/切换等监听器列表。
// 两者都是纯数据结构，不做动作/方向合法性校验（由驱动器在注册前完成）。
package events

import (
	"fmt"
	"sort"

	"github.com/decker502/spriteanim/pkg/library"
	"github.com/decker502/spriteanim/pkg/types"
)

// FrameCallback 帧事件回调
type FrameCallback func()

// FrameKey 帧事件键
type FrameKey struct {
	Action    string
	Direction types.Direction
	Frame     int
}

// NewFrameKey 创建帧事件键（动作名会被规范化）
func NewFrameKey(action string, dir types.Direction, frame int) FrameKey {
	return FrameKey{
		Action:    library.NormalizeAction(action),
		Direction: dir,
		Frame:     frame,
	}
}

// String implements fmt.Stringer.
func (k FrameKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Action, k.Direction, k.Frame)
}

// FrameEventRegistry 帧事件注册表
type FrameEventRegistry struct {
	callbacks map[FrameKey][]FrameCallback
}

// NewFrameEventRegistry 创建空注册表
func NewFrameEventRegistry() *FrameEventRegistry {
	return &FrameEventRegistry{callbacks: make(map[FrameKey][]FrameCallback)}
}

// Set 覆盖键上的所有回调
func (r *FrameEventRegistry) Set(key FrameKey, cb FrameCallback) {
	if cb == nil {
		delete(r.callbacks, key)
		return
	}
	r.callbacks[key] = []FrameCallback{cb}
}

// Extend 在键上追加回调（保持注册顺序）
func (r *FrameEventRegistry) Extend(key FrameKey, cb FrameCallback) {
	if cb == nil {
		return
	}
	r.callbacks[key] = append(r.callbacks[key], cb)
}

// Has 判断键上是否注册了回调
func (r *FrameEventRegistry) Has(key FrameKey) bool {
	return len(r.callbacks[key]) > 0
}

// Count 返回键上的回调数量
func (r *FrameEventRegistry) Count(key FrameKey) int {
	return len(r.callbacks[key])
}

// Fire 按注册顺序触发键上的所有回调，返回触发数量
//
// 先复制回调列表：回调内部重新注册事件不会影响本次触发
func (r *FrameEventRegistry) Fire(key FrameKey) int {
	list := r.callbacks[key]
	if len(list) == 0 {
		return 0
	}
	snapshot := append([]FrameCallback(nil), list...)
	for _, cb := range snapshot {
		cb()
	}
	return len(snapshot)
}

// Remove 删除键上的所有回调
func (r *FrameEventRegistry) Remove(key FrameKey) {
	delete(r.callbacks, key)
}

// Clear 清空注册表
func (r *FrameEventRegistry) Clear() {
	r.callbacks = make(map[FrameKey][]FrameCallback)
}

// Len 返回注册了回调的键数量
func (r *FrameEventRegistry) Len() int {
	return len(r.callbacks)
}

// Keys 返回所有键（按动作、方向、帧排序，便于调试输出）
func (r *FrameEventRegistry) Keys() []FrameKey {
	keys := make([]FrameKey, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		if a.Direction != b.Direction {
			return a.Direction.String() < b.Direction.String()
		}
		return a.Frame < b.Frame
	})
	return keys
}
