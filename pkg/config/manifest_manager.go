package config

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"sync"
)

// ManifestManager 动画清单管理器
// 负责从文件系统加载清单，并按 ID 索引
type ManifestManager struct {
	fsys fs.FS
	root string

	manifests map[string]*LibraryManifest // 按 id 索引
	sources   map[string]string           // id → 文件路径
	mu        sync.RWMutex
}

// NewManifestManager 创建清单管理器
//
// 参数：
//   - fsys: 清单所在的文件系统（embed.FS、os.DirFS 或 fstest.MapFS）
//   - root: 单个清单文件路径，或包含多个 *.yaml 清单的目录
func NewManifestManager(fsys fs.FS, root string) (*ManifestManager, error) {
	m := &ManifestManager{fsys: fsys, root: root}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload 重新加载全部清单
// 加载失败时保留原有内容并返回错误
func (m *ManifestManager) Reload() error {
	files, err := m.listFiles()
	if err != nil {
		return err
	}

	manifests := make(map[string]*LibraryManifest, len(files))
	sources := make(map[string]string, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(m.fsys, file)
		if err != nil {
			return fmt.Errorf("无法读取清单 %s: %w", file, err)
		}
		manifest, err := ParseLibraryManifest(data, file)
		if err != nil {
			return err
		}
		if prev, exists := sources[manifest.ID]; exists {
			return fmt.Errorf("重复的清单 ID '%s'（%s 与 %s）", manifest.ID, prev, file)
		}
		manifests[manifest.ID] = manifest
		sources[manifest.ID] = file
	}

	m.mu.Lock()
	m.manifests = manifests
	m.sources = sources
	m.mu.Unlock()

	log.Printf("[ManifestManager] Loaded %d manifests from %s", len(manifests), m.root)
	return nil
}

// listFiles 列出 root 下的清单文件
func (m *ManifestManager) listFiles() ([]string, error) {
	info, err := fs.Stat(m.fsys, m.root)
	if err != nil {
		return nil, fmt.Errorf("无法访问路径 %s: %w", m.root, err)
	}
	if !info.IsDir() {
		return []string{m.root}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(m.fsys, path.Join(m.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("扫描目录 %s 失败: %w", m.root, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// Get 按 ID 获取清单
func (m *ManifestManager) Get(id string) (*LibraryManifest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	manifest, exists := m.manifests[id]
	if !exists {
		return nil, fmt.Errorf("清单 '%s' 不存在", id)
	}
	return manifest, nil
}

// Source 返回清单所在的文件路径
func (m *ManifestManager) Source(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.sources[id]
	return src, ok
}

// IDs 返回所有清单 ID（字典序）
func (m *ManifestManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.manifests))
	for id := range m.manifests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len 返回清单数量
func (m *ManifestManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.manifests)
}

// FS 返回清单所在的文件系统（加载帧图片和脚本时使用）
func (m *ManifestManager) FS() fs.FS {
	return m.fsys
}
