package config

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/decker502/spriteanim/pkg/types"
)

func loadTestManifest(t *testing.T, path string) *LibraryManifest {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("无法读取 %s: %v", path, err)
	}
	m, err := ParseLibraryManifest(data, path)
	if err != nil {
		t.Fatalf("解析 %s 失败: %v", path, err)
	}
	return m
}

// TestParseLibraryManifest 测试解析有效清单
func TestParseLibraryManifest(t *testing.T) {
	m := loadTestManifest(t, "testdata/manifests/hero.yaml")

	if m.ID != "hero" || len(m.Clips) != 3 || len(m.Alternates) != 1 || len(m.Events) != 2 {
		t.Fatalf("id=%s clips=%d alternates=%d events=%d", m.ID, len(m.Clips), len(m.Alternates), len(m.Events))
	}

	idle := m.Clips[0]
	wantIdle := []string{"hero/idle_s_0.png", "hero/idle_s_1.png"}
	if got := idle.FramePaths(m.Root); !reflect.DeepEqual(got, wantIdle) {
		t.Errorf("FramePaths = %v, want %v", got, wantIdle)
	}

	walkE := m.Clips[1]
	if walkE.Direction != types.DirectionE || walkE.FrameCount() != 4 {
		t.Errorf("walk E: dir=%v frames=%d", walkE.Direction, walkE.FrameCount())
	}
	if got := walkE.FramePaths(""); got[3] != "walk_e_3.png" {
		t.Errorf("pattern 展开错误: %v", got)
	}

	// 片段未指定 fps 时使用清单默认值
	if m.ClipFPS(&walkE) != 10 || m.ClipFPS(&m.Clips[2]) != 8 {
		t.Errorf("ClipFPS = %d/%d, want 10/8", m.ClipFPS(&walkE), m.ClipFPS(&m.Clips[2]))
	}

	if !m.Events[1].Last {
		t.Error("idle 事件应为最后一帧事件")
	}
	if got := m.Scripts(); !reflect.DeepEqual(got, []string{"scripts/idle_over.tengo"}) {
		t.Errorf("Scripts = %v", got)
	}
}

// TestParseLibraryManifest_DefaultFPS 测试默认帧率
func TestParseLibraryManifest_DefaultFPS(t *testing.T) {
	m, err := ParseLibraryManifest([]byte(`
id: x
clips:
  - action: A
    direction: S
    frames: [a.png]
`), "inline")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if m.FPS != 12 {
		t.Errorf("FPS = %d, want 12", m.FPS)
	}
	if m.Clips[0].Action != "a" {
		t.Errorf("Action = %s, want a (规范化为小写)", m.Clips[0].Action)
	}
}

// TestLibraryManifest_Validate 测试清单验证
func TestLibraryManifest_Validate(t *testing.T) {
	const clip = "clips:\n  - {action: walk, direction: S, frames: [a.png]}\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"缺少 id", clip, "'id'"},
		{"没有片段", "id: x\n", "'clips'"},
		{"缺少方向", "id: x\nclips:\n  - {action: walk, frames: [a.png]}\n", "direction"},
		{"没有帧", "id: x\nclips:\n  - {action: walk, direction: S}\n", "没有帧"},
		{"pattern 缺少占位符", "id: x\nclips:\n  - {action: walk, direction: S, pattern: a.png, count: 2}\n", "%d"},
		{"重复片段", "id: x\nclips:\n  - {action: walk, direction: S, frames: [a.png]}\n  - {action: WALK, direction: south, frames: [b.png]}\n", "重复"},
		{"变体名称无效", "id: x\n" + clip + "alternates:\n  - {action: walk2, direction: S, frames: [a.png]}\n", "walk2"},
		{"变体引用不存在的动作", "id: x\n" + clip + "alternates:\n  - {action: run-0, direction: S, frames: [a.png]}\n", "run"},
		{"事件引用不存在的动作", "id: x\n" + clip + "events:\n  - {action: run, frame: 0, emit: hit}\n", "run"},
		{"事件帧号为负", "id: x\n" + clip + "events:\n  - {action: walk, frame: -1, emit: hit}\n", "负数"},
		{"事件没有行为", "id: x\n" + clip + "events:\n  - {action: walk, frame: 0}\n", "emit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLibraryManifest([]byte(tt.yaml), tt.name)
			if err == nil {
				t.Fatalf("期望错误包含 %q，但得到 nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("错误信息 %q 不包含 %q", err.Error(), tt.wantErr)
			}
		})
	}
}
