package render

import (
	"math"
	"testing"

	"github.com/decker502/spriteanim/pkg/animator"
	"github.com/hajimehoshi/ebiten/v2"
)

// 编译期检查接口实现
var (
	_ animator.FlipSink       = (*SpriteRenderer)(nil)
	_ animator.VisibilitySink = (*SpriteRenderer)(nil)
)

// TestSpriteRenderer_DrawOptions 测试锚点、翻转和缩放
func TestSpriteRenderer_DrawOptions(t *testing.T) {
	r := NewSpriteRenderer(100, 50)
	if r.DrawOptions() != nil {
		t.Error("没有帧时 DrawOptions 应为 nil")
	}

	r.SetFrame(ebiten.NewImage(20, 10))

	// 帧左上角 (0,0) → 中心对齐到 (100,50)
	x, y := r.DrawOptions().GeoM.Apply(0, 0)
	if !near(x, 90) || !near(y, 45) {
		t.Errorf("左上角 = (%v, %v), want (90, 45)", x, y)
	}

	r.SetFlipX(true)
	x, _ = r.DrawOptions().GeoM.Apply(0, 0)
	if !near(x, 110) {
		t.Errorf("翻转后左上角 x = %v, want 110", x)
	}

	r.SetFlipX(false)
	r.Scale = 2
	x, y = r.DrawOptions().GeoM.Apply(0, 0)
	if !near(x, 80) || !near(y, 40) {
		t.Errorf("缩放后左上角 = (%v, %v), want (80, 40)", x, y)
	}
}

// TestSpriteRenderer_AsSink 作为驱动器的 sink
func TestSpriteRenderer_AsSink(t *testing.T) {
	r := NewSpriteRenderer(0, 0)
	frame := ebiten.NewImage(4, 4)

	r.SetFrame(frame)
	if r.Frame() != frame {
		t.Error("SetFrame 未生效")
	}

	r.SetVisible(false)
	if r.Visible() {
		t.Error("SetVisible(false) 未生效")
	}

	// 不可见时 Draw 不会出错
	r.Draw(ebiten.NewImage(8, 8))
	r.Draw(nil)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
