package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWatcher_NotifiesManifestChanges 清单变化时发出通知，其他文件被忽略
func TestWatcher_NotifiesManifestChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("创建监听器失败: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "hero.yaml")
	if err := os.WriteFile(target, []byte("id: hero\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Errorf("事件文件 = %s, want %s", name, target)
		}
	case err := <-w.Errors:
		t.Fatalf("监听出错: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("等待清单变化通知超时")
	}
}

// TestWatcher_Close 关闭后通道被关闭，重复关闭安全
func TestWatcher_Close(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("创建监听器失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close 失败: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("重复 Close 失败: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Close 之后 Events 应被关闭")
	}
}

// TestWatcher_MissingDir 监听不存在的目录返回错误
func TestWatcher_MissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("期望监听不存在的目录时返回错误，但得到 nil")
	}
}

// TestIsManifestFile 测试文件类型判断
func TestIsManifestFile(t *testing.T) {
	if !IsManifestFile("a/b.YAML") || !IsManifestFile("x.yml") || IsManifestFile("x.json") {
		t.Error("IsManifestFile 判断错误")
	}
	if !IsScriptFile("s/hit.tengo") || IsScriptFile("s/hit.lua") {
		t.Error("IsScriptFile 判断错误")
	}
}

// TestDebouncer_TrailingEdge 连续变更只在最后一次变更之后报告一次
func TestDebouncer_TrailingEdge(t *testing.T) {
	base := time.Unix(0, 0)
	d := newDebouncer(100 * time.Millisecond)

	d.touch("hero.yaml", base)
	d.touch("hero.yaml", base.Add(60*time.Millisecond))

	// 第一次变更的到期时间已过，但第二次变更把它推迟了
	if got := d.due(base.Add(120 * time.Millisecond)); len(got) != 0 {
		t.Errorf("due = %v, want none before trailing edge", got)
	}
	wait, ok := d.next(base.Add(120 * time.Millisecond))
	if !ok || wait != 40*time.Millisecond {
		t.Errorf("next = %v, %v; want 40ms, true", wait, ok)
	}

	got := d.due(base.Add(160 * time.Millisecond))
	if len(got) != 1 || got[0] != "hero.yaml" {
		t.Errorf("due = %v, want [hero.yaml]", got)
	}
	if _, ok := d.next(base.Add(160 * time.Millisecond)); ok {
		t.Error("报告之后不应再有待处理文件")
	}
}

// TestDebouncer_MultipleFiles 不同文件各自计时，按名称顺序报告
func TestDebouncer_MultipleFiles(t *testing.T) {
	base := time.Unix(0, 0)
	d := newDebouncer(100 * time.Millisecond)

	d.touch("slime.yaml", base)
	d.touch("fx.yaml", base.Add(10*time.Millisecond))
	d.touch("hit.tengo", base.Add(80*time.Millisecond))

	got := d.due(base.Add(110 * time.Millisecond))
	if len(got) != 2 || got[0] != "fx.yaml" || got[1] != "slime.yaml" {
		t.Errorf("due = %v, want [fx.yaml slime.yaml]", got)
	}
	got = d.due(base.Add(180 * time.Millisecond))
	if len(got) != 1 || got[0] != "hit.tengo" {
		t.Errorf("due = %v, want [hit.tengo]", got)
	}
}

// TestWatcher_CoalescesRapidWrites 快速连续写入同一文件只通知一次
func TestWatcher_CoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("创建监听器失败: %v", err)
	}
	defer w.Close()

	target := filepath.Join(dir, "hero.yaml")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("id: hero\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Errorf("事件文件 = %s, want %s", name, target)
		}
	case err := <-w.Errors:
		t.Fatalf("监听出错: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("等待清单变化通知超时")
	}

	select {
	case name := <-w.Events:
		t.Errorf("连续写入应合并为一次通知，又收到 %s", name)
	case <-time.After(300 * time.Millisecond):
	}
}
