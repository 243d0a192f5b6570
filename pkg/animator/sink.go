package animator

import "github.com/hajimehoshi/ebiten/v2"

// FrameSink 接收当前帧图像的渲染目标
// 驱动器在每次帧推进后调用 SetFrame；sink 为 nil 时不做任何事
type FrameSink interface {
	SetFrame(img *ebiten.Image)
}

// FlipSink 支持水平翻转的渲染目标
//
// 只有实现了 FlipSink 的 sink 才会启用镜像回退：
// 例如动作只有 E 方向时，朝 W 会使用 E 的片段并翻转画面。
type FlipSink interface {
	FrameSink
	SetFlipX(flip bool)
	FlipX() bool
}

// VisibilitySink 支持显示/隐藏的渲染目标
// 特效模式下配合 HideWhenNotPlaying 使用
type VisibilitySink interface {
	SetVisible(visible bool)
}
