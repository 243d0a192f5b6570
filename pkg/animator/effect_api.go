package animator

// ==================================================================
// 特效播放入口 (Effect Entry Points)
// ==================================================================
//
// 这些方法在两种模式下都可用；特效模式下播放状态由帧是否有效推导，
// HideWhenNotPlaying 为 true 时停止播放会同时隐藏 sink。

// Play 从起始帧（倒放时为最后一帧）重新播放当前动作
// 触发 begin 事件并立即推送画面
func (d *Driver) Play() {
	d.restart(d.startFrame())
}

// PlayAction 切换到 action 并从头播放
func (d *Driver) PlayAction(action string) bool {
	if !d.SetAction(action) {
		return false
	}
	d.Play()
	return true
}

// PlayRetainFrame 切换到 action 但保留当前帧号继续播放
// 帧号超出新动作的帧数时：特效模式停止，常驻模式回绕
func (d *Driver) PlayRetainFrame(action string) bool {
	frame := d.state.Frame
	if !d.SetAction(action) {
		return false
	}
	if d.mode != ModeEffect {
		if n := d.FrameCount(d.state.Action, d.state.Direction); n > 0 {
			frame %= n
		}
	}
	d.restart(frame)
	return true
}

// PlayRandom 随机选择库中的一个动作并从头播放
func (d *Driver) PlayRandom() bool {
	actions := d.lib.Actions()
	if len(actions) == 0 {
		d.warnf("cannot play random action: library is empty")
		return false
	}
	return d.PlayAction(actions[d.random.Intn(len(actions))])
}

// Stop 停止播放
func (d *Driver) Stop() {
	d.setIsPlaying(false)
}

// SetFrameAndStop 跳到指定帧并停止（index < 0 表示最后一帧）
func (d *Driver) SetFrameAndStop(index int) {
	if d.setFrame(index) {
		d.Stop()
	}
}

// SetFrameAndPlay 跳到指定帧并继续播放（index < 0 表示最后一帧）
func (d *Driver) SetFrameAndPlay(index int) {
	if d.setFrame(index) && d.mode != ModeEffect {
		d.setIsPlaying(true)
	}
}

// SetRandomFrame 跳到当前动作的随机一帧
func (d *Driver) SetRandomFrame() {
	clip := d.resolveActive()
	if clip.FrameCount() == 0 {
		return
	}
	d.state.Frame = d.random.Intn(clip.FrameCount())
	d.updateSprite(clip, true)
}

func (d *Driver) setFrame(index int) bool {
	clip := d.resolveActive()
	if clip.FrameCount() == 0 {
		return false
	}
	if d.playRandomSheet && d.switchRandomAction() {
		if next := d.resolveActive(); next != nil {
			clip = next
		}
	}

	switch {
	case index < 0:
		d.state.Frame = clip.LastIndex()
	case d.mode != ModeEffect && index >= clip.FrameCount():
		d.state.Frame = clip.LastIndex()
	default:
		d.state.Frame = index
	}
	d.updateSprite(clip, true)
	return true
}

// SetLoop 设置特效是否循环
func (d *Driver) SetLoop(loop bool) { d.loop = loop }

// ToggleLoop 切换循环
func (d *Driver) ToggleLoop() { d.loop = !d.loop }

// Loop 是否循环
func (d *Driver) Loop() bool { return d.loop }

// SetPlayRandomSheet 设置循环重播时是否随机切换动作
func (d *Driver) SetPlayRandomSheet(enabled bool) { d.playRandomSheet = enabled }

// SetHideWhenNotPlaying 设置停止时是否隐藏 sink
func (d *Driver) SetHideWhenNotPlaying(enabled bool) {
	d.hideWhenNotPlaying = enabled
	if enabled {
		if vs, ok := d.sink.(VisibilitySink); ok {
			vs.SetVisible(d.state.IsPlaying)
		}
	}
}
