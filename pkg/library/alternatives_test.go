package library

import (
	"testing"

	"github.com/decker502/spriteanim/pkg/types"
)

// buildPoolFixture 主库有 idle/walk，变体库有 idle-0、idle-1 以及孤立的 walk-1
func buildPoolFixture(t *testing.T) (*Library, *Library) {
	t.Helper()
	lib := NewLibrary()
	mustAdd(t, lib, NewAnimationClip("", "idle", types.DirectionS, 10, newTestFrames(4)))
	mustAdd(t, lib, NewAnimationClip("", "walk", types.DirectionS, 10, newTestFrames(6)))

	variants := NewLibrary()
	mustAdd(t, variants, NewAnimationClip("", "idle-0", types.DirectionS, 10, newTestFrames(3)))
	mustAdd(t, variants, NewAnimationClip("", "idle-1", types.DirectionS, 10, newTestFrames(5)))
	// 缺少 walk-0，walk 不应进入池
	mustAdd(t, variants, NewAnimationClip("", "walk-1", types.DirectionS, 10, newTestFrames(2)))
	return lib, variants
}

// TestAlternativePool_Build 测试池构建
func TestAlternativePool_Build(t *testing.T) {
	lib, variants := buildPoolFixture(t)
	pool := NewAlternativePool()
	pool.Build(lib, variants)

	if pool.Len() != 1 {
		t.Fatalf("pool.Len() = %d, want 1", pool.Len())
	}
	if !pool.Has("IDLE") {
		t.Error("pool should contain idle")
	}
	if pool.Has("walk") {
		t.Error("pool should not contain walk (walk-0 missing)")
	}
	if pool.Count("idle") != 3 {
		t.Errorf("Count(idle) = %d, want 3", pool.Count("idle"))
	}

	primary, _ := lib.Clip("idle", types.DirectionS)
	clip, ok := pool.Resolve("idle", 0)
	if !ok || clip != primary {
		t.Error("index 0 should be the primary clip")
	}
	clip, _ = pool.Resolve("idle", 2)
	if clip.FrameCount() != 5 {
		t.Errorf("index 2 FrameCount = %d, want 5", clip.FrameCount())
	}
}

// TestAlternativePool_ResolveBounded 测试索引约束
func TestAlternativePool_ResolveBounded(t *testing.T) {
	lib, variants := buildPoolFixture(t)
	pool := NewAlternativePool()
	pool.Build(lib, variants)

	a, _ := pool.Resolve("idle", 1)
	b, _ := pool.Resolve("idle", 4)
	c, _ := pool.Resolve("idle", -2)
	if a != b || a != c {
		t.Error("out-of-range indices should wrap modulo count")
	}
	if _, ok := pool.Resolve("walk", 0); ok {
		t.Error("Resolve(walk) should fail")
	}
}

// TestAlternativePool_Clear 测试清空与重建
func TestAlternativePool_Clear(t *testing.T) {
	lib, variants := buildPoolFixture(t)
	pool := NewAlternativePool()
	pool.Build(lib, variants)
	pool.Clear()

	if pool.Len() != 0 || pool.Has("idle") {
		t.Error("pool should be empty after Clear")
	}

	pool.Build(lib, variants)
	if pool.Count("idle") != 3 {
		t.Error("pool should be rebuildable after Clear")
	}

	pool.Build(lib, nil)
	if pool.Len() != 0 {
		t.Error("Build with nil variants should leave the pool empty")
	}
}
