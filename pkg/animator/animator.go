// Package animator 实现方向性逐帧精灵动画的播放驱动器
//
// Driver 把 (动作, 方向) 解析为动画片段，按片段帧率推进帧，
// 处理倒放、动作队列、变体随机、帧事件和序列结束策略，
// 并把当前帧推送给渲染 sink。
//
// 驱动器是单线程的：宿主每帧调用一次 Tick，所有回调都在 Tick 内同步触发。
package animator

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/events"
	"github.com/decker502/spriteanim/pkg/library"
	"github.com/decker502/spriteanim/pkg/types"
)

// Status 驱动器的可观察状态
type Status int

const (
	// StatusIdle 没有可解析的片段
	StatusIdle Status = iota
	// StatusPlaying 正在播放
	StatusPlaying
	// StatusPaused 已暂停（或特效已播放完毕）
	StatusPaused
	// StatusAwaitingLoopDelay 特效播放完毕，等待随机间隔后重新播放
	StatusAwaitingLoopDelay
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusAwaitingLoopDelay:
		return "AwaitingLoopDelay"
	default:
		return "Unknown"
	}
}

// Options 驱动器选项
type Options struct {
	// Name 用于日志前缀 [Animator:<Name>]
	Name string

	// Variants 变体库（键为 "<action>-0", "<action>-1", ...），可为 nil
	Variants *library.Library

	// Sink 渲染目标，可为 nil
	Sink FrameSink

	// Random 随机源，nil 时使用以当前时间为种子的 RandSource
	Random Random

	// Scheduler 延迟调度器，nil 时驱动器自带一个 TickScheduler
	Scheduler Scheduler

	Mode                PlaybackMode
	Loop                bool
	PlayRandomSheet     bool
	LoopInterval        types.FloatRange
	HideWhenNotPlaying  bool
	Reverse             bool
	Speed               float64
	RandomizeStartFrame bool
	DefaultAction       string
	DefaultDirection    types.Direction
	UseUnscaledTime     bool
}

// OptionsFromConfig 根据 YAML 配置生成选项
// Sink/Random/Scheduler/Variants 由调用方另行设置
func OptionsFromConfig(cfg *config.AnimatorConfig) Options {
	if cfg == nil {
		return Options{}
	}
	opts := Options{
		Name:                cfg.Name,
		Mode:                ParsePlaybackMode(cfg.Mode),
		Loop:                cfg.Loop,
		PlayRandomSheet:     cfg.PlayRandomSheet,
		LoopInterval:        cfg.LoopInterval.Normalized(),
		HideWhenNotPlaying:  cfg.HideWhenIdle(),
		Reverse:             cfg.Reverse,
		Speed:               cfg.Speed,
		RandomizeStartFrame: cfg.RandomizeStartFrame,
		DefaultAction:       cfg.DefaultAction,
		DefaultDirection:    cfg.DefaultDirection,
		UseUnscaledTime:     cfg.UseUnscaledTime,
	}
	if cfg.Seed != 0 {
		opts.Random = NewRandom(cfg.Seed)
	}
	return opts
}

// Driver 动画播放驱动器
type Driver struct {
	name string

	lib      *library.Library
	variants *library.Library
	pool     *library.AlternativePool

	state components.PlaybackState
	queue components.ActionQueue

	frameEvents     *events.FrameEventRegistry
	onActionChanged *events.ActionSignal
	onActionBegin   *events.ActionSignal
	onActionOver    *events.ActionSignal

	sink      FrameSink
	random    Random
	scheduler Scheduler
	ticker    *TickScheduler // 驱动器自带的调度器（未注入时）

	mode   PlaybackMode
	policy endPolicy

	loop                bool
	playRandomSheet     bool
	loopInterval        types.FloatRange
	hideWhenNotPlaying  bool
	randomizeStartFrame bool
	defaultDirection    types.Direction
	useUnscaledTime     bool

	// awaitingLoop 特效已调度延迟重播，尚未触发
	awaitingLoop bool
	loopToken    int

	// actionGen 每次动作变化递增；回调中切换动作后用它判断是否需要中止当前帧推进
	actionGen int
}

// New 创建驱动器
//
// 创建时会自动校正配置：动作不存在时选字典序第一个动作，
// 方向不存在时选字典序第一个方向（未设置时默认 S），然后应用 DefaultDirection。
func New(lib *library.Library, opts Options) *Driver {
	if lib == nil {
		lib = library.NewLibrary()
	}

	d := &Driver{
		name:                opts.Name,
		lib:                 lib,
		variants:            opts.Variants,
		pool:                library.NewAlternativePool(),
		state:               components.NewPlaybackState(),
		frameEvents:         events.NewFrameEventRegistry(),
		onActionChanged:     events.NewActionSignal(),
		onActionBegin:       events.NewActionSignal(),
		onActionOver:        events.NewActionSignal(),
		sink:                opts.Sink,
		random:              opts.Random,
		scheduler:           opts.Scheduler,
		mode:                opts.Mode,
		policy:              newEndPolicy(opts.Mode),
		loop:                opts.Loop,
		playRandomSheet:     opts.PlayRandomSheet,
		loopInterval:        opts.LoopInterval.Normalized(),
		hideWhenNotPlaying:  opts.HideWhenNotPlaying,
		randomizeStartFrame: opts.RandomizeStartFrame,
		defaultDirection:    opts.DefaultDirection,
		useUnscaledTime:     opts.UseUnscaledTime,
	}
	if d.name == "" {
		d.name = "default"
	}
	if d.random == nil {
		d.random = NewRandom(time.Now().UnixNano())
	}
	if d.scheduler == nil {
		d.ticker = NewTickScheduler()
		d.scheduler = d.ticker
	}
	if opts.Speed > 0 {
		d.state.Speed = opts.Speed
	}
	d.state.Reverse = opts.Reverse
	d.state.Action = library.NormalizeAction(opts.DefaultAction)
	d.state.Direction = opts.DefaultDirection

	d.Validate()
	d.RebuildAlternatives()

	if d.randomizeStartFrame {
		d.state.Frame = d.random.Intn(d.FrameCount(d.state.Action, d.state.Direction))
	}
	return d
}

// Validate 校正动作与方向，使其指向库中存在的片段
func (d *Driver) Validate() {
	actions := d.lib.Actions()
	if len(actions) == 0 {
		if d.state.Action != "" {
			d.warnf("library is empty, clearing action '%s'", d.state.Action)
		}
		d.state.Action = ""
		return
	}

	if d.state.Action == "" || !d.lib.HasAction(d.state.Action) || len(actions) == 1 {
		if d.state.Action != "" && !d.lib.HasAction(d.state.Action) {
			d.warnf("action '%s' not found, auto-selecting '%s'", d.state.Action, actions[0])
		}
		d.state.Action = actions[0]
	}

	want := d.state.FacingDirection()
	if !want.IsSet() {
		want = types.DirectionS
	}
	if !d.applyDirection(want) {
		dirs := d.lib.DirectionsFor(d.state.Action)
		d.applyDirection(dirs[0])
	}

	if d.defaultDirection.IsSet() && !d.applyDirection(d.defaultDirection) {
		d.warnf("default direction %s is not available for action '%s'", d.defaultDirection, d.state.Action)
	}
}

// Enable 启用驱动器（宿主开始显示该对象时调用一次）
//
// 常驻动画：应用默认方向、重建变体池并立即推送当前帧。
// 特效：正在播放时从头（或随机帧）开始播放；否则同步隐藏状态，
// 若开启循环且间隔上限 > 0，则调度一次延迟重播。
func (d *Driver) Enable() {
	if d.mode == ModeEffect && !d.state.IsPlaying {
		d.setIsPlaying(false)
		if d.loop && d.loopInterval.Max > 0 {
			d.scheduleLoop(d.random.Range(d.loopInterval.Min, d.loopInterval.Max))
		}
		return
	}

	if d.defaultDirection.IsSet() {
		d.applyDirection(d.defaultDirection)
	} else if d.state.Direction.IsSet() {
		d.applyDirection(d.state.FacingDirection())
	}
	d.RebuildAlternatives()

	if d.mode != ModeEffect {
		d.updateSprite(d.resolveActive(), true)
		return
	}

	frame := d.startFrame()
	if d.randomizeStartFrame {
		frame = d.random.Intn(d.FrameCount(d.state.Action, d.state.Direction))
	}
	d.restart(frame)
}

// Name 返回驱动器名称
func (d *Driver) Name() string { return d.name }

// Mode 返回播放模式
func (d *Driver) Mode() PlaybackMode { return d.mode }

// Library 返回动画库
func (d *Driver) Library() *library.Library { return d.lib }

// Scheduler 返回驱动器使用的调度器
func (d *Driver) Scheduler() Scheduler { return d.scheduler }

// SetSink 替换渲染目标并立即推送当前帧
func (d *Driver) SetSink(sink FrameSink) {
	d.sink = sink
	if fs, ok := sink.(FlipSink); ok {
		fs.SetFlipX(d.state.Mirrored)
	}
	d.pushFrame(d.resolveActive())
}

// SetLibrary 替换动画库（热重载用），重建变体池并重新校正动作/方向
//
// 不得在帧推进过程中调用。
func (d *Driver) SetLibrary(lib, variants *library.Library) {
	if lib == nil {
		lib = library.NewLibrary()
	}
	d.lib = lib
	d.variants = variants
	d.Validate()
	d.RebuildAlternatives()
	if d.FrameCount(d.state.Action, d.state.Direction) <= d.state.Frame {
		d.state.Frame = 0
	}
	log.Printf("[Animator:%s] Library replaced: %d actions, %d alternative pools", d.name, d.lib.Len(), d.pool.Len())
	d.updateSprite(d.resolveActive(), false)
}

// Status 返回当前状态
func (d *Driver) Status() Status {
	if d.lookupClip(d.state.Action, d.state.Direction, d.canFlip()) == nil {
		return StatusIdle
	}
	if d.awaitingLoop {
		return StatusAwaitingLoopDelay
	}
	if d.state.IsPlaying {
		return StatusPlaying
	}
	return StatusPaused
}

// String 用于调试输出
func (d *Driver) String() string {
	return fmt.Sprintf("Animator(%s %s/%s frame=%d %s)", d.name, d.state.Action, d.state.FacingDirection(), d.state.Frame, d.Status())
}

func (d *Driver) warnf(format string, args ...interface{}) {
	log.Printf("[Animator:%s] Warning: "+format, append([]interface{}{d.name}, args...)...)
}
