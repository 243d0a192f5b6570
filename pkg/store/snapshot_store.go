// Package store 持久化驱动器的播放快照
package store

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/decker502/spriteanim/pkg/components"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrSnapshotNotFound 快照不存在
var ErrSnapshotNotFound = errors.New("snapshot not found")

// 存储路径常量
const snapshotObject = "snapshots"

// validName gdata 属性名会成为文件名，只允许安全字符
var validName = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// SnapshotStore 快照存储
// gdataManager 为 nil 时进入降级模式：快照只保存在内存中
type SnapshotStore struct {
	gdataManager *gdata.Manager
	memory       map[string][]byte
}

// NewSnapshotStore 创建快照存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewSnapshotStore(gdataManager *gdata.Manager) *SnapshotStore {
	return &SnapshotStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// OpenSnapshotStore 打开应用 appName 的数据目录
// 打开失败时记录警告并返回降级模式的存储
func OpenSnapshotStore(appName string) *SnapshotStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SnapshotStore] Warning: Failed to open gdata for '%s': %v (snapshots kept in memory)", appName, err)
		return NewSnapshotStore(nil)
	}
	return NewSnapshotStore(m)
}

// Persistent 是否写入磁盘
func (s *SnapshotStore) Persistent() bool {
	return s.gdataManager != nil
}

// Save 保存快照
func (s *SnapshotStore) Save(name string, snap components.PlaybackSnapshot) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid snapshot name %q", name)
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot '%s': %w", name, err)
	}

	if s.gdataManager == nil {
		s.memory[name] = data
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(snapshotObject, name, data); err != nil {
		return fmt.Errorf("failed to save snapshot '%s': %w", name, err)
	}

	log.Printf("[SnapshotStore] Snapshot '%s' saved (%s/%s)", name, snap.Action, snap.Direction)
	return nil
}

// Load 读取快照；不存在时返回 ErrSnapshotNotFound
func (s *SnapshotStore) Load(name string) (components.PlaybackSnapshot, error) {
	var snap components.PlaybackSnapshot
	if !validName.MatchString(name) {
		return snap, fmt.Errorf("invalid snapshot name %q", name)
	}

	data, err := s.read(name)
	if err != nil {
		return snap, err
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to unmarshal snapshot '%s': %w", name, err)
	}
	return snap, nil
}

// Exists 判断快照是否存在
func (s *SnapshotStore) Exists(name string) bool {
	if !validName.MatchString(name) {
		return false
	}
	if s.gdataManager == nil {
		_, ok := s.memory[name]
		return ok
	}
	return s.gdataManager.ObjectPropExists(snapshotObject, name)
}

func (s *SnapshotStore) read(name string) ([]byte, error) {
	if s.gdataManager == nil {
		data, ok := s.memory[name]
		if !ok {
			return nil, fmt.Errorf("'%s': %w", name, ErrSnapshotNotFound)
		}
		return data, nil
	}

	if !s.gdataManager.ObjectPropExists(snapshotObject, name) {
		return nil, fmt.Errorf("'%s': %w", name, ErrSnapshotNotFound)
	}
	data, err := s.gdataManager.LoadObjectProp(snapshotObject, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot '%s': %w", name, err)
	}
	return data, nil
}
