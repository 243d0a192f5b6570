// Package library provides the animation clip storage used by the animator:
// immutable clips, the action → direction → clip lookup table and the
// alternative variant pool.
package library

import (
	"fmt"
	"log"
	"strings"

	"github.com/decker502/spriteanim/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// AnimationClip is an ordered sequence of frames for one (action, direction) pair.
// A clip is immutable after construction; only loaders may swap its frames
// through ReplaceFrames.
type AnimationClip struct {
	// Category is the optional group prefix of the action (e.g. "default").
	Category string

	// Action is the action name component (e.g. "walk").
	Action string

	// Direction is the cardinal direction this clip was drawn for.
	Direction types.Direction

	// FPS is the playback rate. Always >= 1.
	FPS int

	frames []*ebiten.Image
}

// NewAnimationClip 创建动画片段
// fps 小于 1 时会被修正为 1（避免除零）
func NewAnimationClip(category, action string, direction types.Direction, fps int, frames []*ebiten.Image) *AnimationClip {
	if fps < 1 {
		log.Printf("[AnimationClip] Warning: %s_%s_%s has fps=%d, clamping to 1", category, action, direction, fps)
		fps = 1
	}
	c := &AnimationClip{
		Category:  category,
		Action:    action,
		Direction: direction,
		FPS:       fps,
	}
	c.frames = append([]*ebiten.Image(nil), frames...)
	return c
}

// Key 返回该片段在 Library 中的动作键
// 无分类时为 action，否则为 category_action（统一小写）
func (c *AnimationClip) Key() string {
	if c.Category == "" {
		return NormalizeAction(c.Action)
	}
	return NormalizeAction(c.Category + "_" + c.Action)
}

// QualifiedName 返回 category_action_direction_{fps}F 形式的完整名称
func (c *AnimationClip) QualifiedName() string {
	return fmt.Sprintf("%s_%s_%s_%dF", c.Category, c.Action, c.Direction, c.FPS)
}

// String implements fmt.Stringer.
func (c *AnimationClip) String() string {
	return c.QualifiedName()
}

// FrameCount 返回帧数
func (c *AnimationClip) FrameCount() int {
	if c == nil {
		return 0
	}
	return len(c.frames)
}

// LastIndex 返回最后一帧的索引（空片段返回 -1）
func (c *AnimationClip) LastIndex() int {
	return c.FrameCount() - 1
}

// HasIndex 判断 i 是否是有效帧索引
func (c *AnimationClip) HasIndex(i int) bool {
	return i >= 0 && i < c.FrameCount()
}

// Frame 返回第 i 帧图像
func (c *AnimationClip) Frame(i int) (*ebiten.Image, bool) {
	if !c.HasIndex(i) {
		return nil, false
	}
	return c.frames[i], true
}

// Frames 返回帧列表的副本
func (c *AnimationClip) Frames() []*ebiten.Image {
	if c == nil {
		return nil
	}
	return append([]*ebiten.Image(nil), c.frames...)
}

// Duration 估算整段播放时长（秒）= 帧数 / FPS
func (c *AnimationClip) Duration() float64 {
	if c == nil || c.FPS < 1 {
		return 0
	}
	return float64(len(c.frames)) / float64(c.FPS)
}

// FrameInterval 返回单帧时长（秒）
func (c *AnimationClip) FrameInterval() float64 {
	if c == nil || c.FPS < 1 {
		return 0
	}
	return 1.0 / float64(c.FPS)
}

// ReplaceFrames 替换帧列表（仅供资源加载器在重新导入时使用）
func (c *AnimationClip) ReplaceFrames(frames []*ebiten.Image) {
	c.frames = append([]*ebiten.Image(nil), frames...)
}

// NormalizeAction 规范化动作键：去除首尾空白并转为小写
func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
