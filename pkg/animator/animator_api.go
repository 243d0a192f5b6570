package animator

import (
	"fmt"

	"github.com/decker502/spriteanim/pkg/components"
	"github.com/decker502/spriteanim/pkg/events"
	"github.com/decker502/spriteanim/pkg/library"
	"github.com/decker502/spriteanim/pkg/types"
)

// ==================================================================
// 查询 (Queries)
// ==================================================================

// CurrentAction 返回当前动作键（空字符串表示没有动作）
func (d *Driver) CurrentAction() string { return d.state.Action }

// CurrentDirection 返回当前用于查找片段的方向（镜像时为库中实际存在的方向）
func (d *Driver) CurrentDirection() types.Direction { return d.state.Direction }

// FacingDirection 返回实际朝向（考虑镜像）
func (d *Driver) FacingDirection() types.Direction { return d.state.FacingDirection() }

// Mirrored 当前画面是否水平翻转
func (d *Driver) Mirrored() bool { return d.state.Mirrored }

// CurrentFrame 返回当前帧索引
func (d *Driver) CurrentFrame() int { return d.state.Frame }

// ElapsedTime 返回自上一帧以来累计的时间
func (d *Driver) ElapsedTime() float64 { return d.state.ElapsedTime }

// IsPlaying 是否正在播放
func (d *Driver) IsPlaying() bool { return d.state.IsPlaying }

// Speed 返回播放速度倍率
func (d *Driver) Speed() float64 { return d.state.Speed }

// Reverse 是否倒放
func (d *Driver) Reverse() bool { return d.state.Reverse }

// AlternativeIndex 返回当前变体索引，范围 [0, AlternativeCount())
// 当前动作不在变体池中时返回 0
func (d *Driver) AlternativeIndex() int {
	n := d.pool.Count(d.state.Action)
	if n == 0 {
		return 0
	}
	idx := d.state.AltIndex % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// AlternativeCount 返回当前动作的变体数量（不在变体池中时为 0）
func (d *Driver) AlternativeCount() int { return d.pool.Count(d.state.Action) }

// Actions 返回库中全部动作（字典序）
func (d *Driver) Actions() []string { return d.lib.Actions() }

// HasAction 判断动作是否存在
func (d *Driver) HasAction(action string) bool { return d.lib.HasAction(action) }

// CurrentClip 返回当前片段（没有时为 nil）
func (d *Driver) CurrentClip() *library.AnimationClip {
	return d.lookupClip(d.state.Action, d.state.Direction, d.canFlip())
}

// FrameCount 返回 (action, dir) 的帧数，找不到返回 0
func (d *Driver) FrameCount(action string, dir types.Direction) int {
	return d.lookupClip(library.NormalizeAction(action), dir, true).FrameCount()
}

// EstimatedDuration 估算 (action, dir) 完整播放一次的时长 = 帧数 / 帧率
func (d *Driver) EstimatedDuration(action string, dir types.Direction) float64 {
	return d.lookupClip(library.NormalizeAction(action), dir, true).Duration()
}

// RunningDuration 当前动作完整播放一次的时长
func (d *Driver) RunningDuration() float64 {
	return d.CurrentClip().Duration()
}

// RemainingDuration 当前动作剩余的播放时长 = (帧数 - 当前帧) / 帧率 - 累计时间
func (d *Driver) RemainingDuration() float64 {
	clip := d.CurrentClip()
	if clip == nil {
		return 0
	}
	return float64(clip.FrameCount()-d.state.Frame)/float64(clip.FPS) - d.state.ElapsedTime
}

// ==================================================================
// 动作与方向 (Action & Direction)
// ==================================================================

// SetAction 立即切换动作
//
// 动作不存在时记录警告，清空动作、帧归零、清空队列并返回 false（不触发 onActionChanged）。
// 否则：记录动作 → 触发 onActionChanged → 按当前朝向重新解析方向
// （精确 → 镜像 → 失败时保留原方向并警告）→ 帧和累计时间归零 → 清空队列 → 推送画面。
func (d *Driver) SetAction(action string) bool {
	key := library.NormalizeAction(action)
	if !d.lib.HasAction(key) {
		d.warnf("could not find action '%s'", action)
		d.state.Action = ""
		d.state.Frame = 0
		d.queue.Clear()
		return false
	}

	facing := d.state.FacingDirection()
	if !d.changeAction(key) {
		return true
	}

	if facing.IsSet() && !d.applyDirection(facing) {
		d.warnf("action '%s' has no direction %s (or its mirror), keeping %s", key, facing, d.state.Direction)
	}
	if !d.state.Direction.IsSet() {
		// 之前的方向已被清空，选字典序第一个方向
		if dirs := d.lib.DirectionsFor(key); len(dirs) > 0 {
			d.applyDirection(dirs[0])
		}
	}
	d.state.ResetCursor()
	d.queue.Clear()
	d.updateSprite(d.resolveActive(), false)
	return true
}

// SetActionDirection 切换动作并设置方向
func (d *Driver) SetActionDirection(action string, dir types.Direction) bool {
	if !d.SetAction(action) {
		return false
	}
	return d.SetDirection(dir)
}

// SetDirection 只针对当前动作校验并设置方向
//
// 方向及其镜像都不可用时拒绝修改（状态不变）并记录警告。
func (d *Driver) SetDirection(dir types.Direction) bool {
	if d.state.Action == "" || d.lib.DirectionsFor(d.state.Action) == nil {
		d.warnf("cannot face %s: no current action", dir)
		return false
	}
	if !d.applyDirection(dir) {
		d.warnf("could not find valid direction for action '%s' while facing %s", d.state.Action, dir)
		return false
	}
	d.updateSprite(d.resolveActive(), false)
	return true
}

// SetDirectionFlipped 设置方向，flip 为 true 时先水平翻转
func (d *Driver) SetDirectionFlipped(dir types.Direction, flip bool) bool {
	if flip {
		dir = dir.FlipX()
	}
	return d.SetDirection(dir)
}

// FaceTowards 根据目标 x 坐标朝向 E 或 W；x 相同时不变
func (d *Driver) FaceTowards(selfX, targetX float64) bool {
	switch {
	case targetX > selfX:
		return d.SetDirection(types.DirectionE)
	case targetX < selfX:
		return d.SetDirection(types.DirectionW)
	default:
		return false
	}
}

// ==================================================================
// 播放控制 (Playback Control)
// ==================================================================

// Pause 暂停
func (d *Driver) Pause() { d.setIsPlaying(false) }

// Resume 继续播放（累计时间清零）
func (d *Driver) Resume() { d.setIsPlaying(true) }

// SetSpeed 设置播放速度倍率（<= 0 时忽略）
func (d *Driver) SetSpeed(speed float64) {
	if speed <= 0 {
		d.warnf("ignoring non-positive speed %v", speed)
		return
	}
	d.state.Speed = speed
}

// SetReverse 设置是否倒放
func (d *Driver) SetReverse(reverse bool) { d.state.Reverse = reverse }

// ToggleReverse 切换倒放
func (d *Driver) ToggleReverse() { d.state.Reverse = !d.state.Reverse }

// ResetElapsedTime 清零累计时间
func (d *Driver) ResetElapsedTime() { d.state.ElapsedTime = 0 }

// ==================================================================
// 动作队列 (Action Queue)
// ==================================================================

// Enqueue 将动作加入队列，保留切换时的朝向
func (d *Driver) Enqueue(action string) bool {
	return d.EnqueueDirection(action, types.DirectionNone)
}

// EnqueueDirection 将动作加入队列，切换时应用 dir
func (d *Driver) EnqueueDirection(action string, dir types.Direction) bool {
	key := library.NormalizeAction(action)
	if !d.lib.HasAction(key) {
		d.warnf("cannot enqueue unknown action '%s'", action)
		return false
	}
	d.queue.Push(components.QueuedAction{Action: key, Direction: dir})
	return true
}

// EnqueueMultiple 依次入队，返回成功入队的数量
func (d *Driver) EnqueueMultiple(actions ...string) int {
	n := 0
	for _, a := range actions {
		if d.Enqueue(a) {
			n++
		}
	}
	return n
}

// QueueLen 返回队列长度
func (d *Driver) QueueLen() int { return d.queue.Len() }

// QueuedNames 返回以逗号分隔的队列内容
func (d *Driver) QueuedNames() string { return d.queue.Names() }

// ClearQueue 清空队列
func (d *Driver) ClearQueue() { d.queue.Clear() }

// ==================================================================
// 监听器 (Listeners)
// ==================================================================

// OnActionChanged 注册动作切换监听器
func (d *Driver) OnActionChanged(fn func(action string)) {
	d.onActionChanged.Connect(events.ActionHandler(fn))
}

// OnAnyActionBegin 注册任意动作开始的监听器（每轮循环都会触发）
func (d *Driver) OnAnyActionBegin(fn func(action string)) {
	d.onActionBegin.Connect(events.ActionHandler(fn))
}

// OnAnyActionOver 注册任意动作结束的监听器
func (d *Driver) OnAnyActionOver(fn func(action string)) {
	d.onActionOver.Connect(events.ActionHandler(fn))
}

// OnActionBegin 注册指定动作开始的监听器
func (d *Driver) OnActionBegin(action string, fn func()) {
	d.onActionBegin.ConnectAction(action, fn)
}

// OnActionOver 注册指定动作结束的监听器
func (d *Driver) OnActionOver(action string, fn func()) {
	d.onActionOver.ConnectAction(action, fn)
}

// ==================================================================
// 帧事件 (Frame Events)
// ==================================================================

// RegisterFrameEvent 为动作的所有方向在 frame 上注册回调（覆盖已有回调）
func (d *Driver) RegisterFrameEvent(action string, frame int, cb func()) error {
	return d.registerFrameEvent(action, types.DirectionNone, frame, cb, false)
}

// RegisterDirectionalFrameEvent 为指定方向注册回调（覆盖已有回调）
func (d *Driver) RegisterDirectionalFrameEvent(action string, dir types.Direction, frame int, cb func()) error {
	if !dir.IsSet() {
		return fmt.Errorf("register %s/%d: %w", action, frame, ErrUnknownDirection)
	}
	return d.registerFrameEvent(action, dir, frame, cb, false)
}

// ExtendFrameEvent 为动作的所有方向在 frame 上追加回调
func (d *Driver) ExtendFrameEvent(action string, frame int, cb func()) error {
	return d.registerFrameEvent(action, types.DirectionNone, frame, cb, true)
}

// ExtendDirectionalFrameEvent 为指定方向追加回调
func (d *Driver) ExtendDirectionalFrameEvent(action string, dir types.Direction, frame int, cb func()) error {
	if !dir.IsSet() {
		return fmt.Errorf("extend %s/%d: %w", action, frame, ErrUnknownDirection)
	}
	return d.registerFrameEvent(action, dir, frame, cb, true)
}

// RegisterLastFrameEvent 为动作所有方向的最后一帧注册回调
func (d *Driver) RegisterLastFrameEvent(action string, cb func()) error {
	dirs := d.lib.DirectionsFor(action)
	if dirs == nil {
		return fmt.Errorf("register last frame of '%s': %w", action, ErrUnknownAction)
	}
	for _, dir := range dirs {
		if err := d.RegisterDirectionalLastFrameEvent(action, dir, cb); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDirectionalLastFrameEvent 为指定方向的最后一帧注册回调
func (d *Driver) RegisterDirectionalLastFrameEvent(action string, dir types.Direction, cb func()) error {
	clip, ok := d.lib.Clip(action, dir)
	if !ok {
		if !d.lib.HasAction(action) {
			return fmt.Errorf("register last frame of '%s': %w", action, ErrUnknownAction)
		}
		return fmt.Errorf("register last frame of '%s' %s: %w", action, dir, ErrUnknownDirection)
	}
	return d.registerFrameEvent(action, dir, clip.LastIndex(), cb, false)
}

// ClearFrameEvents 清空所有帧事件
func (d *Driver) ClearFrameEvents() { d.frameEvents.Clear() }

// FrameEventCount 返回注册了帧事件的 (动作, 方向, 帧) 数量
func (d *Driver) FrameEventCount() int { return d.frameEvents.Len() }

func (d *Driver) registerFrameEvent(action string, dir types.Direction, frame int, cb func(), extend bool) error {
	if cb == nil {
		return fmt.Errorf("frame event %s/%s/%d: %w", action, dir, frame, ErrNilCallback)
	}

	key := library.NormalizeAction(action)
	dirs := d.lib.DirectionsFor(key)
	if dirs == nil {
		return fmt.Errorf("frame event '%s': %w", action, ErrUnknownAction)
	}
	if dir.IsSet() {
		if !d.lib.HasDirection(key, dir) {
			return fmt.Errorf("frame event '%s' %s: %w", action, dir, ErrUnknownDirection)
		}
		dirs = []types.Direction{dir}
	}

	// 先校验全部方向，避免部分注册
	for _, dr := range dirs {
		if frame < 0 || frame >= d.maxFrameCount(key, dr) {
			return fmt.Errorf("frame event '%s' %s frame %d: %w", action, dr, frame, ErrInvalidFrame)
		}
	}

	for _, dr := range dirs {
		fk := events.NewFrameKey(key, dr, frame)
		if extend {
			d.frameEvents.Extend(fk, cb)
		} else {
			d.frameEvents.Set(fk, cb)
		}
	}
	return nil
}

// maxFrameCount 返回 (action, dir) 片段及其变体中最大的帧数
func (d *Driver) maxFrameCount(action string, dir types.Direction) int {
	n := 0
	if clip, ok := d.lib.Clip(action, dir); ok {
		n = clip.FrameCount()
	}
	for i := 0; i < d.pool.Count(action); i++ {
		if clip, ok := d.pool.Resolve(action, i); ok && clip.FrameCount() > n {
			n = clip.FrameCount()
		}
	}
	return n
}

// ==================================================================
// 变体池 (Alternatives)
// ==================================================================

// RebuildAlternatives 根据主库和变体库重建变体池
func (d *Driver) RebuildAlternatives() {
	d.pool.Build(d.lib, d.variants)
}

// ClearAlternatives 清空变体池
func (d *Driver) ClearAlternatives() {
	d.pool.Clear()
	d.state.AltIndex = 0
}

// SetVariants 替换变体库并重建变体池
func (d *Driver) SetVariants(variants *library.Library) {
	d.variants = variants
	d.RebuildAlternatives()
}

// ==================================================================
// 快照 (Snapshot)
// ==================================================================

// Snapshot 采集当前播放状态
func (d *Driver) Snapshot() components.PlaybackSnapshot {
	return components.Capture(d.state, &d.queue)
}

// Restore 从快照恢复播放状态
//
// 快照中的动作必须存在于当前库中（空动作除外）；方向会重新解析。
func (d *Driver) Restore(snap components.PlaybackSnapshot) error {
	if snap.Action != "" && !d.lib.HasAction(snap.Action) {
		return fmt.Errorf("restore '%s': %w", snap.Action, ErrUnknownAction)
	}
	for _, item := range snap.Queue {
		if !d.lib.HasAction(item.Action) {
			return fmt.Errorf("restore queued '%s': %w", item.Action, ErrUnknownAction)
		}
	}

	state := snap.State()
	state.Action = library.NormalizeAction(state.Action)
	if state.Action != "" && state.Direction.IsSet() {
		res, ok := d.lib.Resolve(state.Action, state.FacingDirection(), d.canFlip())
		if !ok {
			return fmt.Errorf("restore '%s' facing %s: %w", state.Action, state.FacingDirection(), ErrUnknownDirection)
		}
		state.Direction = res.Direction
		state.Mirrored = res.Mirrored
	}

	d.state = state
	d.awaitingLoop = false
	snap.RestoreQueue(&d.queue)
	if fs, ok := d.sink.(FlipSink); ok {
		fs.SetFlipX(d.state.Mirrored)
	}
	if d.mode == ModeEffect && d.hideWhenNotPlaying {
		if vs, ok := d.sink.(VisibilitySink); ok {
			vs.SetVisible(d.state.IsPlaying)
		}
	}
	d.pushFrame(d.resolveActive())
	return nil
}
