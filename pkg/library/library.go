package library

import (
	"fmt"
	"sort"

	"github.com/decker502/spriteanim/pkg/types"
)

// Resolution 是一次 (action, direction) 查询的结果
type Resolution struct {
	// Clip 命中的动画片段
	Clip *AnimationClip

	// Direction 实际生效的方向（镜像命中时为镜像后的方向）
	Direction types.Direction

	// Mirrored 是否通过水平镜像命中（调用方需要翻转画面）
	Mirrored bool
}

// Library 两级查找表：动作键（小写） → 方向 → 动画片段
//
// 构建完成后只读；重建需要由调用方保证不与帧推进并发。
type Library struct {
	actions map[string]map[types.Direction]*AnimationClip
}

// NewLibrary 创建空的动画库
func NewLibrary() *Library {
	return &Library{
		actions: make(map[string]map[types.Direction]*AnimationClip),
	}
}

// Add 向库中添加动画片段
//
// 返回错误的情况：
//   - clip 为 nil 或没有任何帧
//   - 动作名为空
//   - 同一动作下该方向已存在片段
func (l *Library) Add(clip *AnimationClip) error {
	if clip == nil {
		return fmt.Errorf("clip is nil")
	}
	return l.AddAction(clip.Key(), clip)
}

// AddAction 以显式的动作键添加片段（清单加载时分类只作为标签，动作键就是动作名）
func (l *Library) AddAction(action string, clip *AnimationClip) error {
	if clip == nil {
		return fmt.Errorf("clip is nil")
	}
	key := NormalizeAction(action)
	if key == "" {
		return fmt.Errorf("clip %s has empty action", clip.QualifiedName())
	}
	if clip.FrameCount() == 0 {
		return fmt.Errorf("clip %s has no frames", clip.QualifiedName())
	}

	directions, ok := l.actions[key]
	if !ok {
		directions = make(map[types.Direction]*AnimationClip)
		l.actions[key] = directions
	}
	if _, exists := directions[clip.Direction]; exists {
		return fmt.Errorf("action %q already has a clip for direction %q", key, clip.Direction)
	}
	directions[clip.Direction] = clip
	return nil
}

// HasAction 判断动作是否存在（不区分大小写）
func (l *Library) HasAction(action string) bool {
	if l == nil {
		return false
	}
	_, ok := l.actions[NormalizeAction(action)]
	return ok
}

// Actions 返回所有动作键（字典序）
func (l *Library) Actions() []string {
	if l == nil {
		return nil
	}
	keys := make([]string, 0, len(l.actions))
	for k := range l.actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len 返回动作数量
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.actions)
}

// DirectionsFor 返回动作的所有可用方向（按字典序）
// 动作不存在时返回 nil
func (l *Library) DirectionsFor(action string) []types.Direction {
	if l == nil {
		return nil
	}
	directions, ok := l.actions[NormalizeAction(action)]
	if !ok {
		return nil
	}
	dirs := make([]types.Direction, 0, len(directions))
	for d := range directions {
		dirs = append(dirs, d)
	}
	types.SortDirections(dirs)
	return dirs
}

// HasDirection 判断动作是否有精确匹配的方向
func (l *Library) HasDirection(action string, dir types.Direction) bool {
	_, ok := l.Clip(action, dir)
	return ok
}

// Clip 精确查找片段（不做镜像回退）
func (l *Library) Clip(action string, dir types.Direction) (*AnimationClip, bool) {
	if l == nil {
		return nil, false
	}
	directions, ok := l.actions[NormalizeAction(action)]
	if !ok {
		return nil, false
	}
	clip, ok := directions[dir]
	return clip, ok
}

// FirstClip 返回动作在字典序第一个方向上的片段
func (l *Library) FirstClip(action string) (*AnimationClip, bool) {
	dirs := l.DirectionsFor(action)
	if len(dirs) == 0 {
		return nil, false
	}
	return l.Clip(action, dirs[0])
}

// Resolve 解析 (action, dir) 对应的片段
//
// 解析顺序：
//  1. 精确方向匹配
//  2. 仅当 allowMirror 为 true 时，尝试水平镜像方向；命中时 Resolution.Mirrored = true
//  3. 未找到返回 false（由调用方记录警告并清空方向）
func (l *Library) Resolve(action string, dir types.Direction, allowMirror bool) (Resolution, bool) {
	if clip, ok := l.Clip(action, dir); ok {
		return Resolution{Clip: clip, Direction: dir}, true
	}
	if allowMirror {
		flipped := dir.FlipX()
		if flipped != dir {
			if clip, ok := l.Clip(action, flipped); ok {
				return Resolution{Clip: clip, Direction: flipped, Mirrored: true}, true
			}
		}
	}
	return Resolution{}, false
}

// FrameCount 返回 (action, dir) 的帧数，允许镜像回退；未找到返回 0
func (l *Library) FrameCount(action string, dir types.Direction) int {
	res, ok := l.Resolve(action, dir, true)
	if !ok {
		return 0
	}
	return res.Clip.FrameCount()
}

// Clips 返回库中所有片段（按动作、方向排序）
func (l *Library) Clips() []*AnimationClip {
	var clips []*AnimationClip
	for _, action := range l.Actions() {
		for _, dir := range l.DirectionsFor(action) {
			clip, _ := l.Clip(action, dir)
			clips = append(clips, clip)
		}
	}
	return clips
}
