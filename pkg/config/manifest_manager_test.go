package config

import (
	"fmt"
	"os"
	"reflect"
	"testing"
	"testing/fstest"
)

const minimalManifest = "id: %s\nclips:\n  - {action: idle, direction: S, frames: [a.png]}\n"

// TestManifestManager_Directory 测试目录模式
func TestManifestManager_Directory(t *testing.T) {
	m, err := NewManifestManager(os.DirFS("testdata"), "manifests")
	if err != nil {
		t.Fatalf("创建清单管理器失败: %v", err)
	}

	if got := m.IDs(); !reflect.DeepEqual(got, []string{"fx", "hero"}) {
		t.Errorf("IDs = %v, want [fx hero]", got)
	}

	hero, err := m.Get("hero")
	if err != nil {
		t.Fatalf("Get(hero) 失败: %v", err)
	}
	if hero.Category != "hero" {
		t.Errorf("Category = %s, want hero", hero.Category)
	}
	if src, _ := m.Source("hero"); src != "manifests/hero.yaml" {
		t.Errorf("Source = %s, want manifests/hero.yaml", src)
	}

	if _, err := m.Get("zombie"); err == nil {
		t.Error("期望获取不存在的清单时返回错误，但得到 nil")
	}
}

// TestManifestManager_SingleFile 测试单文件模式
func TestManifestManager_SingleFile(t *testing.T) {
	m, err := NewManifestManager(os.DirFS("testdata"), "manifests/fx.yaml")
	if err != nil {
		t.Fatalf("创建清单管理器失败: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

// TestManifestManager_Errors 测试加载失败
func TestManifestManager_Errors(t *testing.T) {
	if _, err := NewManifestManager(os.DirFS("testdata"), "missing"); err == nil {
		t.Error("期望路径不存在时返回错误，但得到 nil")
	}

	dup := fstest.MapFS{
		"m/a.yaml": {Data: []byte(fmt.Sprintf(minimalManifest, "same"))},
		"m/b.yml":  {Data: []byte(fmt.Sprintf(minimalManifest, "same"))},
	}
	if _, err := NewManifestManager(dup, "m"); err == nil {
		t.Error("期望重复 ID 返回错误，但得到 nil")
	}
}

// TestManifestManager_Reload 测试重新加载
func TestManifestManager_Reload(t *testing.T) {
	fsys := fstest.MapFS{
		"m/a.yaml": {Data: []byte(fmt.Sprintf(minimalManifest, "a"))},
	}
	m, err := NewManifestManager(fsys, "m")
	if err != nil {
		t.Fatalf("创建清单管理器失败: %v", err)
	}

	fsys["m/b.yaml"] = &fstest.MapFile{Data: []byte(fmt.Sprintf(minimalManifest, "b"))}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload 失败: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	// 加载失败时保留原有内容
	fsys["m/c.yaml"] = &fstest.MapFile{Data: []byte("id: c\n")}
	if err := m.Reload(); err == nil {
		t.Error("期望无效清单导致 Reload 失败")
	}
	if got := m.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs = %v, want [a b]", got)
	}
}
