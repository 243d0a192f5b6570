package main

import (
	"testing"

	"github.com/decker502/spriteanim/pkg/animator"
	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/embedded"
	"github.com/decker502/spriteanim/pkg/utils"
)

// loadEmbeddedData 加载嵌入的 data/ 目录
func loadEmbeddedData(t *testing.T) (*config.AnimatorSet, *config.ManifestManager, *utils.FrameLoader) {
	t.Helper()
	embedded.Init(dataFS)
	fsys, err := embedded.Sub("data")
	if err != nil {
		t.Fatalf("Sub(data) failed: %v", err)
	}

	set, err := config.LoadAnimatorSet(fsys, "animators.yaml")
	if err != nil {
		t.Fatalf("LoadAnimatorSet failed: %v", err)
	}
	manifests, err := config.NewManifestManager(fsys, "manifests")
	if err != nil {
		t.Fatalf("NewManifestManager failed: %v", err)
	}
	frames := utils.NewFrameLoader(fsys)
	frames.AllowPlaceholders = true
	return set, manifests, frames
}

// TestEmbeddedData 所有内置驱动器都能创建
func TestEmbeddedData(t *testing.T) {
	set, manifests, frames := loadEmbeddedData(t)

	for i := range set.Animators {
		cfg := &set.Animators[i]
		cell, err := NewViewerCell(cfg, manifests, frames, 1)
		if err != nil {
			t.Errorf("[%s] NewViewerCell failed: %v", cfg.Name, err)
			continue
		}
		if len(cell.Driver().Actions()) == 0 {
			t.Errorf("[%s] no actions", cfg.Name)
		}
	}
}

// TestEmbeddedData_HeroAttackReturnsToIdle 攻击结束后脚本把 idle 加入队列
func TestEmbeddedData_HeroAttackReturnsToIdle(t *testing.T) {
	set, manifests, frames := loadEmbeddedData(t)
	cfg, ok := set.Find("hero")
	if !ok {
		t.Fatal("hero animator not found")
	}
	cell, err := NewViewerCell(cfg, manifests, frames, 1)
	if err != nil {
		t.Fatalf("NewViewerCell failed: %v", err)
	}
	d := cell.Driver()

	if !d.SetAction("attack") {
		t.Fatal("SetAction(attack) failed")
	}

	// attack 3 帧 @12fps，足够跑完一轮
	for i := 0; i < 60 && d.CurrentAction() == "attack"; i++ {
		d.Tick(1.0 / 30)
	}
	if d.CurrentAction() != "idle" {
		t.Errorf("action = %s, want idle", d.CurrentAction())
	}
	if len(cell.signals) == 0 || cell.signals[0] != "hit" {
		t.Errorf("signals = %v, want hit first", cell.signals)
	}
}

// TestEmbeddedData_Reload 重载后驱动器保持当前动作
func TestEmbeddedData_Reload(t *testing.T) {
	set, manifests, frames := loadEmbeddedData(t)
	cfg, _ := set.Find("hero")
	cell, err := NewViewerCell(cfg, manifests, frames, 1)
	if err != nil {
		t.Fatalf("NewViewerCell failed: %v", err)
	}
	cell.Driver().SetAction("walk")
	before := cell.Driver().FrameEventCount()

	frames.ClearCache()
	if err := cell.Reload(manifests, frames); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if cell.Driver().CurrentAction() != "walk" {
		t.Errorf("action after reload = %s, want walk", cell.Driver().CurrentAction())
	}
	if after := cell.Driver().FrameEventCount(); after != before {
		t.Errorf("frame events after reload = %d, want %d", after, before)
	}
}

// TestEmbeddedData_EffectMode 特效驱动器启用后处于播放或等待重播状态
func TestEmbeddedData_EffectMode(t *testing.T) {
	set, manifests, frames := loadEmbeddedData(t)
	cfg, ok := set.Find("explosion")
	if !ok {
		t.Fatal("explosion animator not found")
	}
	cell, err := NewViewerCell(cfg, manifests, frames, 1)
	if err != nil {
		t.Fatalf("NewViewerCell failed: %v", err)
	}
	if cell.Driver().Mode() != animator.ModeEffect {
		t.Errorf("mode = %v, want effect", cell.Driver().Mode())
	}
	status := cell.Driver().Status()
	if status != animator.StatusPlaying && status != animator.StatusAwaitingLoopDelay {
		t.Errorf("status = %v", status)
	}
}
