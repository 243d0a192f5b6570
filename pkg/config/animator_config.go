package config

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/decker502/spriteanim/pkg/types"
	"gopkg.in/yaml.v3"
)

// AnimatorConfig 单个动画驱动器的配置
//
// 示例（data/animators.yaml）：
//
//	animators:
//	  - name: hero
//	    manifest: hero
//	    default_action: idle
//	    default_direction: S
//	  - name: explosion
//	    manifest: fx
//	    mode: effect
//	    loop: true
//	    loop_interval: {min: 0.5, max: 1.5}
type AnimatorConfig struct {
	// Name 驱动器名称（日志前缀）
	Name string `yaml:"name"`

	// Manifest 使用的动画清单 ID
	Manifest string `yaml:"manifest"`

	// Mode 播放模式："animator"（默认）或 "effect"
	Mode string `yaml:"mode,omitempty"`

	// Loop 特效播放完毕后是否重新播放
	Loop bool `yaml:"loop,omitempty"`

	// PlayRandomSheet 特效重播时随机切换动作
	PlayRandomSheet bool `yaml:"play_random_sheet,omitempty"`

	// LoopInterval 特效重播前的随机等待区间（秒）
	LoopInterval types.FloatRange `yaml:"loop_interval,omitempty"`

	// HideWhenNotPlaying 停止时是否隐藏；未设置时特效默认隐藏、常驻动画默认不隐藏
	HideWhenNotPlaying *bool `yaml:"hide_when_not_playing,omitempty"`

	Reverse             bool    `yaml:"reverse,omitempty"`
	Speed               float64 `yaml:"speed,omitempty"` // 默认 1.0
	RandomizeStartFrame bool    `yaml:"randomize_start_frame,omitempty"`

	DefaultAction    string          `yaml:"default_action,omitempty"`
	DefaultDirection types.Direction `yaml:"default_direction,omitempty"`

	// UseUnscaledTime 忽略宿主的时间缩放
	UseUnscaledTime bool `yaml:"use_unscaled_time,omitempty"`

	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed,omitempty"`
}

// AnimatorSet 配置文件顶层结构
type AnimatorSet struct {
	Animators []AnimatorConfig `yaml:"animators"`
}

// IsEffect 是否为特效模式
func (c *AnimatorConfig) IsEffect() bool {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "effect", "vfx":
		return true
	}
	return false
}

// HideWhenIdle 返回停止时是否隐藏（应用默认值）
func (c *AnimatorConfig) HideWhenIdle() bool {
	if c.HideWhenNotPlaying == nil {
		return c.IsEffect()
	}
	return *c.HideWhenNotPlaying
}

// Find 按名称查找驱动器配置
func (s *AnimatorSet) Find(name string) (*AnimatorConfig, bool) {
	for i := range s.Animators {
		if s.Animators[i].Name == name {
			return &s.Animators[i], true
		}
	}
	return nil, false
}

// LoadAnimatorConfig 从磁盘加载单个驱动器配置
func LoadAnimatorConfig(path string) (*AnimatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}
	return ParseAnimatorConfig(data, path)
}

// ParseAnimatorConfig 解析并验证单个驱动器配置
// source 只用于错误信息
func ParseAnimatorConfig(data []byte, source string) (*AnimatorConfig, error) {
	var cfg AnimatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", source, err)
	}
	if err := validateAnimatorConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置文件 %s 验证失败: %w", source, err)
	}
	return &cfg, nil
}

// LoadAnimatorSet 从文件系统加载驱动器配置列表
func LoadAnimatorSet(fsys fs.FS, path string) (*AnimatorSet, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	var set AnimatorSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}

	names := make(map[string]bool, len(set.Animators))
	for i := range set.Animators {
		cfg := &set.Animators[i]
		if err := validateAnimatorConfig(cfg); err != nil {
			return nil, fmt.Errorf("配置文件 %s 的驱动器 #%d 验证失败: %w", path, i, err)
		}
		if names[cfg.Name] {
			return nil, fmt.Errorf("配置文件 %s 中存在重复的驱动器名称 '%s'", path, cfg.Name)
		}
		names[cfg.Name] = true
	}
	return &set, nil
}

// validateAnimatorConfig 验证配置并填充默认值
func validateAnimatorConfig(cfg *AnimatorConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("缺少必填字段 'name'")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "animator", "effect", "vfx":
	default:
		return fmt.Errorf("驱动器 '%s' 的模式 '%s' 无效，只能是 'animator' 或 'effect'", cfg.Name, cfg.Mode)
	}

	if cfg.Speed < 0 {
		return fmt.Errorf("驱动器 '%s' 的 speed 不能为负数: %v", cfg.Name, cfg.Speed)
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}

	if cfg.LoopInterval.Min < 0 || cfg.LoopInterval.Max < 0 {
		return fmt.Errorf("驱动器 '%s' 的 loop_interval 不能为负数: [%v, %v]",
			cfg.Name, cfg.LoopInterval.Min, cfg.LoopInterval.Max)
	}
	cfg.LoopInterval = cfg.LoopInterval.Normalized()

	cfg.DefaultAction = strings.ToLower(strings.TrimSpace(cfg.DefaultAction))
	return nil
}
