package animator

import (
	"log"
	"strings"

	"github.com/decker502/spriteanim/pkg/library"
)

// ==================================================================
// 播放模式 (Playback Mode)
// ==================================================================
//
// 两种播放模式共享同一个 Driver，只在"序列播放结束"时的处理不同：
//
// 1. ModeAnimator - 常驻动画（角色行走/待机等）
//    结束后回绕到第一帧继续播放，从不自动停止
//
// 2. ModeEffect - 一次性特效（爆炸/命中等）
//    结束后停止并（可选）隐藏；开启 Loop 时在随机间隔后重新播放
//    播放状态由当前帧是否有效推导
//
// ==================================================================

// PlaybackMode 播放模式
type PlaybackMode int

const (
	// ModeAnimator 回绕并继续播放
	ModeAnimator PlaybackMode = iota

	// ModeEffect 播放完毕后停止并隐藏（或按间隔循环）
	ModeEffect
)

// String 返回播放模式的字符串表示（用于日志和配置）
func (m PlaybackMode) String() string {
	switch m {
	case ModeAnimator:
		return "animator"
	case ModeEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// ParsePlaybackMode 将配置中的模式字符串转换为 PlaybackMode
// 无法识别时记录警告并返回 ModeAnimator
func ParsePlaybackMode(s string) PlaybackMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "animator":
		return ModeAnimator
	case "effect", "vfx":
		return ModeEffect
	default:
		log.Printf("[ParsePlaybackMode] Warning: Unknown mode string '%s', defaulting to animator", s)
		return ModeAnimator
	}
}

// endPolicy 序列结束策略
//
// 在帧越界且队列为空时调用。实现可以修改 d.state.Frame，
// 返回之后用于推送画面的片段（可能因随机切换动作而变化）。
type endPolicy interface {
	sequenceEnded(d *Driver, clip *library.AnimationClip) *library.AnimationClip
}

func newEndPolicy(mode PlaybackMode) endPolicy {
	if mode == ModeEffect {
		return effectPolicy{}
	}
	return wrapPolicy{}
}

// wrapPolicy 常驻动画：回绕
type wrapPolicy struct{}

func (wrapPolicy) sequenceEnded(d *Driver, clip *library.AnimationClip) *library.AnimationClip {
	d.wrapFrame(clip)
	return clip
}

// effectPolicy 特效：不循环时返回 nil（随后 updateSprite 会停止并隐藏），
// 循环时立即回绕或在随机间隔后回绕
type effectPolicy struct{}

func (effectPolicy) sequenceEnded(d *Driver, clip *library.AnimationClip) *library.AnimationClip {
	if !d.loop {
		return nil
	}

	// 有变体池时结束处已重新抽取变体，直接回绕
	if d.pool.Has(d.state.Action) {
		d.wrapFrame(clip)
		return clip
	}

	interval := d.random.Range(d.loopInterval.Min, d.loopInterval.Max)
	if interval <= 0 {
		return d.loopRestart(clip)
	}

	d.scheduleLoop(interval)
	return clip
}
