package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/spriteanim/pkg/types"
	"gopkg.in/yaml.v3"
)

// LibraryManifest 动画清单：描述一个角色/特效的全部动画片段
//
// 示例：
//
//	id: hero
//	category: hero
//	fps: 10
//	clips:
//	  - action: walk
//	    direction: E
//	    pattern: hero/walk_e_%d.png
//	    count: 4
//	alternates:
//	  - action: idle-0
//	    direction: S
//	    frames: [hero/idle_alt_0.png, hero/idle_alt_1.png]
//	events:
//	  - action: attack
//	    frame: 2
//	    emit: hit
//	  - action: attack
//	    last: true
//	    script: scripts/attack_over.tengo
type LibraryManifest struct {
	// ID 清单 ID（AnimatorConfig.Manifest 引用）
	ID string `yaml:"id"`

	// Category 片段分类（只用于调试显示）
	Category string `yaml:"category,omitempty"`

	// FPS 片段未指定帧率时使用的默认值
	FPS int `yaml:"fps,omitempty"`

	// Root 帧图片路径的前缀目录
	Root string `yaml:"root,omitempty"`

	Clips      []ClipSpec       `yaml:"clips"`
	Alternates []ClipSpec       `yaml:"alternates,omitempty"`
	Events     []FrameEventSpec `yaml:"events,omitempty"`
}

// ClipSpec 单个 (动作, 方向) 片段
//
// 帧列表二选一：frames 显式列出，或 pattern + count 生成（pattern 中的 %d 为帧号）。
type ClipSpec struct {
	Action    string          `yaml:"action"`
	Direction types.Direction `yaml:"direction"`
	FPS       int             `yaml:"fps,omitempty"`
	Frames    []string        `yaml:"frames,omitempty"`
	Pattern   string          `yaml:"pattern,omitempty"`
	Count     int             `yaml:"count,omitempty"`

	// Color 帧图片缺失时占位图的颜色名（colornames）
	Color string `yaml:"color,omitempty"`
}

// FrameEventSpec 清单中声明的帧事件
//
// 触发时可以发出一个命名信号（emit），也可以运行一段 tengo 脚本（script），或两者都有。
type FrameEventSpec struct {
	Action string `yaml:"action"`

	// Direction 为空表示动作的所有方向
	Direction types.Direction `yaml:"direction,omitempty"`

	Frame int  `yaml:"frame"`
	Last  bool `yaml:"last,omitempty"` // 为 true 时忽略 Frame，使用最后一帧

	Emit   string `yaml:"emit,omitempty"`
	Script string `yaml:"script,omitempty"`
}

// FramePaths 返回片段的帧路径列表（已加上 root 前缀）
func (c *ClipSpec) FramePaths(root string) []string {
	var paths []string
	if len(c.Frames) > 0 {
		paths = make([]string, len(c.Frames))
		copy(paths, c.Frames)
	} else {
		paths = make([]string, c.Count)
		for i := 0; i < c.Count; i++ {
			paths[i] = fmt.Sprintf(c.Pattern, i)
		}
	}

	if root == "" {
		return paths
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	for i, p := range paths {
		paths[i] = prefix + p
	}
	return paths
}

// FrameCount 返回声明的帧数
func (c *ClipSpec) FrameCount() int {
	if len(c.Frames) > 0 {
		return len(c.Frames)
	}
	return c.Count
}

// ClipFPS 返回片段帧率（未指定时使用清单默认值）
func (m *LibraryManifest) ClipFPS(c *ClipSpec) int {
	if c.FPS > 0 {
		return c.FPS
	}
	return m.FPS
}

// ParseLibraryManifest 解析并验证清单
// source 只用于错误信息
func ParseLibraryManifest(data []byte, source string) (*LibraryManifest, error) {
	var m LibraryManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("无法解析清单 %s: %w", source, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("清单 %s 验证失败: %w", source, err)
	}
	return &m, nil
}

// Validate 验证清单的完整性并规范化动作名
func (m *LibraryManifest) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("缺少必填字段 'id'")
	}
	if m.FPS < 0 {
		return fmt.Errorf("清单 '%s' 的默认 fps 不能为负数: %d", m.ID, m.FPS)
	}
	if m.FPS == 0 {
		m.FPS = 12
	}

	if len(m.Clips) == 0 {
		return fmt.Errorf("清单 '%s' 的 'clips' 列表为空", m.ID)
	}

	actions := make(map[string]bool)
	if err := validateClips(m.ID, "clips", m.Clips, actions); err != nil {
		return err
	}

	variants := make(map[string]bool)
	if err := validateClips(m.ID, "alternates", m.Alternates, variants); err != nil {
		return err
	}
	for name := range variants {
		base, ok := splitVariantKey(name)
		if !ok {
			return fmt.Errorf("清单 '%s' 的变体 '%s' 名称无效，应为 '<action>-<n>'", m.ID, name)
		}
		if !actions[base] {
			return fmt.Errorf("清单 '%s' 的变体 '%s' 引用了不存在的动作 '%s'", m.ID, name, base)
		}
	}

	for i := range m.Events {
		ev := &m.Events[i]
		ev.Action = strings.ToLower(strings.TrimSpace(ev.Action))
		if ev.Action == "" {
			return fmt.Errorf("清单 '%s' 的帧事件 #%d 缺少 'action' 字段", m.ID, i)
		}
		if !actions[ev.Action] {
			return fmt.Errorf("清单 '%s' 的帧事件 #%d 引用了不存在的动作 '%s'", m.ID, i, ev.Action)
		}
		if !ev.Last && ev.Frame < 0 {
			return fmt.Errorf("清单 '%s' 的帧事件 #%d 帧号不能为负数: %d", m.ID, i, ev.Frame)
		}
		if ev.Emit == "" && ev.Script == "" {
			return fmt.Errorf("清单 '%s' 的帧事件 #%d 必须指定 'emit' 或 'script'", m.ID, i)
		}
	}
	return nil
}

// Scripts 返回清单引用的全部脚本路径（去重，保持声明顺序）
func (m *LibraryManifest) Scripts() []string {
	seen := make(map[string]bool)
	var scripts []string
	for _, ev := range m.Events {
		if ev.Script == "" || seen[ev.Script] {
			continue
		}
		seen[ev.Script] = true
		scripts = append(scripts, ev.Script)
	}
	return scripts
}

func validateClips(id, field string, clips []ClipSpec, actions map[string]bool) error {
	seen := make(map[string]bool)
	for i := range clips {
		c := &clips[i]
		c.Action = strings.ToLower(strings.TrimSpace(c.Action))
		if c.Action == "" {
			return fmt.Errorf("清单 '%s' 的 %s #%d 缺少 'action' 字段", id, field, i)
		}
		if !c.Direction.IsSet() {
			return fmt.Errorf("清单 '%s' 的 %s '%s' 缺少 'direction' 字段", id, field, c.Action)
		}
		if c.FPS < 0 {
			return fmt.Errorf("清单 '%s' 的 %s '%s' fps 不能为负数: %d", id, field, c.Action, c.FPS)
		}
		if len(c.Frames) == 0 {
			if c.Pattern == "" || c.Count <= 0 {
				return fmt.Errorf("清单 '%s' 的 %s '%s_%s' 没有帧（需要 'frames' 或 'pattern' + 'count'）",
					id, field, c.Action, c.Direction)
			}
			if !strings.Contains(c.Pattern, "%") {
				return fmt.Errorf("清单 '%s' 的 %s '%s_%s' 的 pattern 缺少帧号占位符 %%d", id, field, c.Action, c.Direction)
			}
		}

		key := c.Action + "_" + c.Direction.String()
		if seen[key] {
			return fmt.Errorf("清单 '%s' 的 %s 中存在重复的片段 '%s'", id, field, key)
		}
		seen[key] = true
		actions[c.Action] = true
	}
	return nil
}

// splitVariantKey 把 "idle-2" 拆成 "idle"
func splitVariantKey(name string) (string, bool) {
	i := strings.LastIndex(name, "-")
	if i <= 0 || i == len(name)-1 {
		return "", false
	}
	if _, err := strconv.Atoi(name[i+1:]); err != nil {
		return "", false
	}
	return name[:i], true
}
