// viewer_cell.go
// 查看器单元 - 一个驱动器及其渲染目标

package main

import (
	"fmt"
	"log"

	"github.com/decker502/spriteanim/pkg/animator"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/render"
	"github.com/decker502/spriteanim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxRecentSignals 单元面板中显示的最近信号数
const maxRecentSignals = 4

// ViewerCell 查看器单元
type ViewerCell struct {
	config   *config.AnimatorConfig
	loaded   *utils.LoadedLibrary
	driver   *animator.Driver
	renderer *render.SpriteRenderer

	// 最近触发的信号（emit）
	signals []string
}

// NewViewerCell 根据驱动器配置创建单元
func NewViewerCell(cfg *config.AnimatorConfig, manifests *config.ManifestManager, frames *utils.FrameLoader, scale float64) (*ViewerCell, error) {
	cell := &ViewerCell{
		config:   cfg,
		renderer: render.NewSpriteRenderer(0, 0),
	}
	cell.renderer.Scale = scale

	loaded, err := cell.loadLibrary(manifests, frames)
	if err != nil {
		return nil, err
	}
	driver, err := utils.BuildAnimator(cfg, loaded, cell.renderer, cell.emit)
	if err != nil {
		return nil, err
	}
	cell.loaded = loaded
	cell.driver = driver

	driver.OnAnyActionOver(func(action string) {
		if *verbose {
			log.Printf("[%s] %s over", cfg.Name, action)
		}
	})
	driver.Enable()
	return cell, nil
}

func (c *ViewerCell) loadLibrary(manifests *config.ManifestManager, frames *utils.FrameLoader) (*utils.LoadedLibrary, error) {
	m, err := manifests.Get(c.config.Manifest)
	if err != nil {
		return nil, fmt.Errorf("驱动器 '%s': %w", c.config.Name, err)
	}
	return utils.LoadLibrary(m, frames, manifests.FS())
}

// Reload 热重载：替换动画库并重新绑定帧事件，播放状态保留
func (c *ViewerCell) Reload(manifests *config.ManifestManager, frames *utils.FrameLoader) error {
	loaded, err := c.loadLibrary(manifests, frames)
	if err != nil {
		return err
	}

	c.driver.ClearFrameEvents()
	c.driver.SetLibrary(loaded.Library, loaded.Variants)
	if err := loaded.BindEvents(c.driver, c.emit); err != nil {
		return err
	}
	c.loaded = loaded
	return nil
}

// emit 帧事件信号回调
func (c *ViewerCell) emit(signal string) {
	c.signals = append(c.signals, signal)
	if len(c.signals) > maxRecentSignals {
		c.signals = c.signals[len(c.signals)-maxRecentSignals:]
	}
	if *verbose {
		log.Printf("[%s] signal: %s", c.config.Name, signal)
	}
}

// Update 推进动画
func (c *ViewerCell) Update(dt, timeScale float64) {
	c.driver.TickScaled(dt, timeScale)
}

// Render 以 (centerX, centerY) 为中心绘制当前帧
func (c *ViewerCell) Render(screen *ebiten.Image, centerX, centerY float64) {
	c.renderer.X = centerX
	c.renderer.Y = centerY
	c.renderer.Draw(screen)
}

// Name 驱动器名称
func (c *ViewerCell) Name() string { return c.config.Name }

// Driver 返回驱动器
func (c *ViewerCell) Driver() *animator.Driver { return c.driver }

// Renderer 返回渲染目标
func (c *ViewerCell) Renderer() *render.SpriteRenderer { return c.renderer }

// StatusLines 单元面板中显示的文本
func (c *ViewerCell) StatusLines() []string {
	d := c.driver
	lines := []string{
		fmt.Sprintf("%s [%s]", c.config.Name, d.Mode()),
		fmt.Sprintf("%s/%s frame %d", d.CurrentAction(), d.FacingDirection(), d.CurrentFrame()),
		fmt.Sprintf("%s x%.2f", d.Status(), d.Speed()),
	}
	if d.Reverse() {
		lines[2] += " rev"
	}
	if n := d.AlternativeCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("alt %d/%d", d.AlternativeIndex(), n))
	}
	if d.QueueLen() > 0 {
		lines = append(lines, "queue: "+d.QueuedNames())
	}
	if len(c.signals) > 0 {
		lines = append(lines, fmt.Sprintf("signals: %v", c.signals))
	}
	return lines
}
