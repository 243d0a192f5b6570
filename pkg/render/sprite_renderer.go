// Package render 提供基于 Ebitengine 的帧 sink
package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteRenderer 接收驱动器推送的帧并绘制到屏幕
//
// 实现 animator.FrameSink / FlipSink / VisibilitySink。
// 锚点为帧图片的中心：(X, Y) 是帧中心在屏幕上的位置。
type SpriteRenderer struct {
	X, Y  float64
	Scale float64 // 0 视为 1

	frame   *ebiten.Image
	flipX   bool
	visible bool
}

// NewSpriteRenderer 创建位于 (x, y) 的渲染器
func NewSpriteRenderer(x, y float64) *SpriteRenderer {
	return &SpriteRenderer{X: x, Y: y, Scale: 1, visible: true}
}

// SetFrame 设置当前帧
func (r *SpriteRenderer) SetFrame(img *ebiten.Image) { r.frame = img }

// Frame 返回当前帧
func (r *SpriteRenderer) Frame() *ebiten.Image { return r.frame }

// SetFlipX 设置水平翻转
func (r *SpriteRenderer) SetFlipX(flip bool) { r.flipX = flip }

// FlipX 是否水平翻转
func (r *SpriteRenderer) FlipX() bool { return r.flipX }

// SetVisible 设置可见性
func (r *SpriteRenderer) SetVisible(visible bool) { r.visible = visible }

// Visible 是否可见
func (r *SpriteRenderer) Visible() bool { return r.visible }

// DrawOptions 返回绘制当前帧用的变换（翻转 → 缩放 → 平移到锚点）
// 没有帧时返回 nil
func (r *SpriteRenderer) DrawOptions() *ebiten.DrawImageOptions {
	if r.frame == nil {
		return nil
	}

	scale := r.Scale
	if scale == 0 {
		scale = 1
	}
	w := float64(r.frame.Bounds().Dx())
	h := float64(r.frame.Bounds().Dy())

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(-w/2, -h/2)
	if r.flipX {
		opts.GeoM.Scale(-1, 1)
	}
	opts.GeoM.Scale(scale, scale)
	opts.GeoM.Translate(r.X, r.Y)
	return opts
}

// Draw 把当前帧绘制到 target；不可见或没有帧时什么都不做
func (r *SpriteRenderer) Draw(target *ebiten.Image) {
	if !r.visible || target == nil {
		return
	}
	opts := r.DrawOptions()
	if opts == nil {
		return
	}
	target.DrawImage(r.frame, opts)
}
