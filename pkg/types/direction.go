// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Direction 定义动画的朝向（8 方向 + 未设置）
// 值类型，可直接作为 map 的 key 使用
type Direction int

const (
	// DirectionNone 未设置的方向（哨兵值）
	DirectionNone Direction = iota
	DirectionN              // 北
	DirectionNE             // 东北
	DirectionE              // 东
	DirectionSE             // 东南
	DirectionS              // 南
	DirectionSW             // 西南
	DirectionW              // 西
	DirectionNW             // 西北
)

// AllDirections 按枚举顺序列出所有有效方向（不含 DirectionNone）
var AllDirections = []Direction{
	DirectionN, DirectionNE, DirectionE, DirectionSE,
	DirectionS, DirectionSW, DirectionW, DirectionNW,
}

// String 返回方向的缩写形式（"N"、"SE" 等），未设置时返回空字符串
func (d Direction) String() string {
	switch d {
	case DirectionN:
		return "N"
	case DirectionNE:
		return "NE"
	case DirectionE:
		return "E"
	case DirectionSE:
		return "SE"
	case DirectionS:
		return "S"
	case DirectionSW:
		return "SW"
	case DirectionW:
		return "W"
	case DirectionNW:
		return "NW"
	default:
		return ""
	}
}

// IsSet 是否为有效方向
func (d Direction) IsSet() bool {
	return d >= DirectionN && d <= DirectionNW
}

// FlipX 返回水平镜像后的方向
// E↔W, NE↔NW, SE↔SW；N、S 和未设置保持不变
func (d Direction) FlipX() Direction {
	switch d {
	case DirectionE:
		return DirectionW
	case DirectionW:
		return DirectionE
	case DirectionNE:
		return DirectionNW
	case DirectionNW:
		return DirectionNE
	case DirectionSE:
		return DirectionSW
	case DirectionSW:
		return DirectionSE
	default:
		return d
	}
}

// ParseDirection 解析方向字符串（不区分大小写）
//
// 支持的格式：
//   - 缩写："N", "ne", "SW"
//   - 全称："north", "South-East", "northwest", "north_west"
//   - 空字符串解析为 DirectionNone
func ParseDirection(s string) (Direction, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	switch key {
	case "":
		return DirectionNone, nil
	case "N", "NORTH", "UP":
		return DirectionN, nil
	case "NE", "NORTHEAST":
		return DirectionNE, nil
	case "E", "EAST", "RIGHT":
		return DirectionE, nil
	case "SE", "SOUTHEAST":
		return DirectionSE, nil
	case "S", "SOUTH", "DOWN":
		return DirectionS, nil
	case "SW", "SOUTHWEST":
		return DirectionSW, nil
	case "W", "WEST", "LEFT":
		return DirectionW, nil
	case "NW", "NORTHWEST":
		return DirectionNW, nil
	}
	return DirectionNone, fmt.Errorf("unknown direction %q", s)
}

// MustParseDirection 与 ParseDirection 相同，解析失败时 panic（仅用于常量初始化和测试）
func MustParseDirection(s string) Direction {
	d, err := ParseDirection(s)
	if err != nil {
		panic(err)
	}
	return d
}

// SortDirections 按文本形式的字典序排序（原地排序）
// 用于在多个候选方向中稳定地选出"第一个"
func SortDirections(dirs []Direction) {
	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].String() < dirs[j].String()
	})
}

// MarshalYAML 以缩写形式输出方向
func (d Direction) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML 从缩写或全称解析方向
func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("direction must be a string (line %d): %w", value.Line, err)
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}
