package animator

import (
	"github.com/decker502/spriteanim/pkg/events"
	"github.com/decker502/spriteanim/pkg/library"
	"github.com/decker502/spriteanim/pkg/types"
)

// Tick 推进 dt 秒（宿主每帧调用一次）
//
// 执行流程：
//  1. 推进驱动器自带的调度器（触发到期的延迟重播）
//  2. ElapsedTime += dt * Speed
//  3. 播放中且 ElapsedTime 超过一帧时长时，扣除一帧时长并推进一帧
//
// 每次 Tick 最多推进一帧：dt 很大时剩余时间留给后续 Tick，不做追帧。
// dt <= 0 时什么都不做。
func (d *Driver) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	if d.ticker != nil {
		d.ticker.Advance(dt)
	}

	d.state.ElapsedTime += dt * d.state.Speed

	// 没有可解析片段时帧率视为 0，跳过比较（不做除法）
	rate := d.currentFrameRate()
	if rate <= 0 {
		d.state.ElapsedTime = 0
		return
	}

	interval := 1.0 / float64(rate)
	if d.state.IsPlaying && d.state.ElapsedTime > interval {
		d.state.ElapsedTime -= interval
		d.step()
	}
}

// TickScaled 按宿主时间缩放推进
// UseUnscaledTime 为 true 时忽略 timeScale（例如暂停菜单中的动画）
func (d *Driver) TickScaled(dt, timeScale float64) {
	if !d.useUnscaledTime {
		dt *= timeScale
	}
	d.Tick(dt)
}

// step 推进一帧（核心状态机）
func (d *Driver) step() {
	gen := d.actionGen
	clip := d.resolveActive()

	switch {
	case clip == nil:
		d.state.Frame = 0
	case d.state.Reverse:
		d.state.Frame--
	default:
		d.state.Frame++
	}

	ended := clip != nil && !clip.HasIndex(d.state.Frame)
	if ended {
		action := d.state.Action
		d.onActionOver.Emit(action)
		if d.actionGen != gen {
			// 监听器中切换了动作，新动作已经完成了重置和推送
			return
		}

		// 重新抽取变体；之后的越界判断基于新变体的帧数
		if d.pool.Has(action) {
			d.state.AltIndex = d.random.Intn(d.pool.Count(action))
			clip = d.resolveActive()
		}
	}

	switch {
	case (clip == nil || ended) && !d.queue.IsEmpty():
		if !d.dequeue() {
			// onActionChanged 中切换了动作
			return
		}
		clip = d.resolveActive()
		d.state.Frame = d.startFrameOf(clip)
	case clip == nil:
		d.state.Frame = 0
	case ended:
		clip = d.policy.sequenceEnded(d, clip)
	}

	gen = d.actionGen
	if clip != nil && d.atStart(clip) {
		d.onActionBegin.Emit(d.state.Action)
		if d.actionGen != gen {
			return
		}
	}

	d.updateSprite(clip, true)
}

// dequeue 从队列头部取出下一个动作并切换过去
// 与 SetAction 不同：不会清空队列中剩余的动作。
// 返回 false 表示监听器中又切换了动作
func (d *Driver) dequeue() bool {
	item, ok := d.queue.Pop()
	if !ok {
		return true
	}

	facing := d.state.FacingDirection()
	if !d.changeAction(item.Action) {
		return false
	}

	dir := facing
	if item.Direction.IsSet() {
		dir = item.Direction
	}
	if !d.applyDirection(dir) {
		d.warnf("queued action '%s' has no direction %s, keeping %s", d.state.Action, dir, d.state.Direction)
	}
	d.state.ResetCursor()
	return true
}

// changeAction 记录新动作并触发 onActionChanged
// 返回 false 表示监听器中又切换了动作，调用方应放弃后续处理
func (d *Driver) changeAction(action string) bool {
	d.state.Action = library.NormalizeAction(action)
	d.awaitingLoop = false
	d.actionGen++
	gen := d.actionGen
	d.onActionChanged.Emit(d.state.Action)
	return d.actionGen == gen
}

// updateSprite 把当前帧推送给 sink，并在 invokeEvent 时触发帧事件
//
// 帧无效时不推送；特效模式下播放状态由帧是否有效决定。
func (d *Driver) updateSprite(clip *library.AnimationClip, invokeEvent bool) {
	if clip == nil || !clip.HasIndex(d.state.Frame) {
		if d.mode == ModeEffect {
			d.setIsPlaying(false)
		}
		return
	}

	if d.mode == ModeEffect {
		d.setIsPlaying(true)
	}

	frame := d.state.Frame
	d.pushFrame(clip)

	if invokeEvent {
		d.frameEvents.Fire(events.NewFrameKey(d.state.Action, clip.Direction, frame))
	}
}

// pushFrame 只推送画面，不触发事件也不改变播放状态
func (d *Driver) pushFrame(clip *library.AnimationClip) {
	if d.sink == nil {
		return
	}
	if img, ok := clip.Frame(d.state.Frame); ok {
		d.sink.SetFrame(img)
	}
}

// setIsPlaying 设置播放标志；开始播放时清零累计时间
// HideWhenNotPlaying 时同步 sink 的可见性
func (d *Driver) setIsPlaying(enabled bool) {
	if enabled && !d.state.IsPlaying {
		d.state.ElapsedTime = 0
	}
	if enabled {
		d.awaitingLoop = false
	}
	d.state.IsPlaying = enabled
	if d.hideWhenNotPlaying {
		if vs, ok := d.sink.(VisibilitySink); ok {
			vs.SetVisible(enabled)
		}
	}
}

// scheduleLoop 在 delay 秒后重播
// 之前调度的重播作废；等待期间动作被切换或重新开始播放时，这次重播也会作废
func (d *Driver) scheduleLoop(delay float64) {
	d.awaitingLoop = true
	d.loopToken++
	token := d.loopToken
	d.scheduler.After(delay, func() {
		if d.awaitingLoop && d.loopToken == token {
			d.setFirstFrame()
		}
	})
}

// setFirstFrame 延迟重播回调：回到起始帧并继续播放
func (d *Driver) setFirstFrame() {
	d.awaitingLoop = false

	clip := d.resolveActive()
	if clip == nil {
		return
	}
	clip = d.loopRestart(clip)
	if clip == nil {
		return
	}

	gen := d.actionGen
	if d.atStart(clip) {
		d.onActionBegin.Emit(d.state.Action)
		if d.actionGen != gen {
			return
		}
	}
	d.updateSprite(clip, true)
}

// loopRestart 循环重播：按需随机切换动作，序列已结束时回到起始帧
func (d *Driver) loopRestart(clip *library.AnimationClip) *library.AnimationClip {
	ended := !clip.HasIndex(d.state.Frame)
	if d.playRandomSheet && d.switchRandomAction() {
		if next := d.resolveActive(); next != nil {
			clip = next
		}
	}
	if ended {
		d.state.Frame = d.startFrameOf(clip)
	}
	return clip
}

// switchRandomAction 随机切换到库中的某个动作（保留朝向）
func (d *Driver) switchRandomAction() bool {
	actions := d.lib.Actions()
	if len(actions) == 0 {
		return false
	}
	facing := d.state.FacingDirection()
	if !d.changeAction(actions[d.random.Intn(len(actions))]) {
		return false
	}
	if facing.IsSet() && !d.applyDirection(facing) {
		d.warnf("random action '%s' has no direction %s", d.state.Action, facing)
	}
	return true
}

// restart 从指定帧开始播放（Play 系列入口的公共部分）
func (d *Driver) restart(frame int) {
	d.awaitingLoop = false
	clip := d.resolveActive()

	d.state.Frame = frame
	d.state.ElapsedTime = 0
	if d.mode != ModeEffect && clip != nil {
		d.state.IsPlaying = true
	}

	if d.state.Action != "" {
		gen := d.actionGen
		d.onActionBegin.Emit(d.state.Action)
		if d.actionGen != gen {
			return
		}
	}
	d.updateSprite(clip, true)
}

// wrapFrame 序列结束后回到 clip 的起始帧
// clip 可能是结束时新抽取的变体，帧数与结束的片段不同
func (d *Driver) wrapFrame(clip *library.AnimationClip) {
	d.state.Frame = d.startFrameOf(clip)
}

// atStart 判断当前帧是否是一轮播放的起始帧（正放 0，倒放最后一帧）
func (d *Driver) atStart(clip *library.AnimationClip) bool {
	if d.state.Reverse {
		return d.state.Frame == clip.LastIndex()
	}
	return d.state.Frame == 0
}

// startFrameOf 返回片段的起始帧
func (d *Driver) startFrameOf(clip *library.AnimationClip) int {
	if clip != nil && d.state.Reverse {
		return clip.LastIndex()
	}
	return 0
}

// startFrame 返回当前动作的起始帧
func (d *Driver) startFrame() int {
	return d.startFrameOf(d.lookupClip(d.state.Action, d.state.Direction, d.canFlip()))
}

// currentFrameRate 返回当前片段的帧率，无可解析片段时返回 0
func (d *Driver) currentFrameRate() int {
	clip := d.lookupClip(d.state.Action, d.state.Direction, d.canFlip())
	if clip == nil {
		return 0
	}
	return clip.FPS
}

// ==================================================================
// 解析 (Resolution)
// ==================================================================

// canFlip sink 是否支持水平翻转（决定是否启用镜像回退）
func (d *Driver) canFlip() bool {
	_, ok := d.sink.(FlipSink)
	return ok
}

// lookupClip 静默查找片段（变体池优先），不修改状态、不记录日志
func (d *Driver) lookupClip(action string, dir types.Direction, allowMirror bool) *library.AnimationClip {
	if action == "" {
		return nil
	}
	if clip, ok := d.pool.Resolve(action, d.state.AltIndex); ok {
		return clip
	}
	res, ok := d.lib.Resolve(action, dir, allowMirror)
	if !ok {
		return nil
	}
	return res.Clip
}

// resolveActive 解析当前播放的片段
//
// 查找失败时记录警告：动作缺失只返回 nil（动作只在 SetAction 被拒绝时清空）；
// 方向及其镜像都缺失时把方向清为 None 并强制帧为 0。
func (d *Driver) resolveActive() *library.AnimationClip {
	action := d.state.Action
	if action == "" {
		return nil
	}
	if clip, ok := d.pool.Resolve(action, d.state.AltIndex); ok {
		return clip
	}
	if !d.lib.HasAction(action) {
		d.warnf("could not find action '%s'", action)
		return nil
	}
	if !d.state.Direction.IsSet() {
		return nil
	}

	facing := d.state.FacingDirection()
	res, ok := d.lib.Resolve(action, d.state.Direction, d.canFlip())
	if !ok {
		d.warnf("could not find direction %s for action '%s'", d.state.Direction, action)
		d.state.Direction = types.DirectionNone
		d.state.Mirrored = false
		d.state.Frame = 0
		return nil
	}
	if res.Mirrored {
		d.adopt(res, res.Direction != facing)
	}
	return res.Clip
}

// applyDirection 尝试让当前动作朝向 dir（精确匹配，sink 可翻转时允许镜像）
// 失败时不修改任何状态
func (d *Driver) applyDirection(dir types.Direction) bool {
	if d.state.Action == "" || !dir.IsSet() {
		return false
	}
	res, ok := d.lib.Resolve(d.state.Action, dir, d.canFlip())
	if !ok {
		return false
	}
	d.adopt(res, res.Mirrored)
	return true
}

// adopt 采用解析结果并同步 sink 的翻转状态
func (d *Driver) adopt(res library.Resolution, mirrored bool) {
	d.state.Direction = res.Direction
	d.state.Mirrored = mirrored
	if fs, ok := d.sink.(FlipSink); ok {
		fs.SetFlipX(mirrored)
	}
}
