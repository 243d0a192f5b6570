// Package components 定义动画驱动器使用的纯数据组件
package components

import (
	"github.com/decker502/spriteanim/pkg/types"
)

// PlaybackState 播放游标(纯数据)
//
// 由 animator.Driver 独占修改；外部通过 Driver 的 API 读写。
//
// 不变式:
//   - Frame 在每次帧推进结束后处于 [0, 帧数) 之内
//     (唯一例外:特效模式非循环播放结束后的"越界"状态,此时精灵被隐藏)
//   - Speed 默认为 1
type PlaybackState struct {
	// ==========================================================================
	// 动作与方向 (Action & Direction)
	// ==========================================================================

	// Action 当前动作键(小写),空字符串表示未设置
	Action string

	// Direction 当前用于查找片段的方向
	// 镜像命中时为库中实际存在的方向(如朝 W 时存的是 E)
	Direction types.Direction

	// Mirrored 是否通过水平镜像显示
	// 朝向 = Mirrored ? Direction.FlipX() : Direction
	Mirrored bool

	// ==========================================================================
	// 播放游标 (Cursor)
	// ==========================================================================

	// Frame 当前帧索引
	Frame int

	// ElapsedTime 自上一帧以来累计的(已乘速度的)时间,单位:秒
	ElapsedTime float64

	// Speed 播放速度倍率
	Speed float64

	// IsPlaying 是否正在播放
	IsPlaying bool

	// Reverse 是否倒放
	Reverse bool

	// ==========================================================================
	// 变体 (Alternatives)
	// ==========================================================================

	// AltIndex 当前动作在变体池中的索引(0 = 主片段)
	AltIndex int
}

// NewPlaybackState 创建默认播放状态
func NewPlaybackState() PlaybackState {
	return PlaybackState{
		Speed:     1,
		IsPlaying: true,
	}
}

// FacingDirection 返回实际朝向(考虑镜像)
func (s *PlaybackState) FacingDirection() types.Direction {
	if s.Mirrored {
		return s.Direction.FlipX()
	}
	return s.Direction
}

// ResetCursor 重置帧与累计时间
func (s *PlaybackState) ResetCursor() {
	s.Frame = 0
	s.ElapsedTime = 0
}
