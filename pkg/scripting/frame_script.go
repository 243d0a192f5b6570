// Package scripting 把清单中的 tengo 脚本绑定为帧事件回调
//
// 脚本需要定义 on_frame 函数：
//
//	on_frame := func(engine, state) {
//	    if engine.frame() == 2 {
//	        engine.emit("hit")
//	        engine.enqueue("idle")
//	    }
//	}
//
// engine 提供的函数：set_action, enqueue, set_direction, emit, action, frame, direction, log。
// state 是一个在同一驱动器的多次调用之间保留的 map。
package scripting

import (
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/decker502/spriteanim/pkg/types"
)

// Host 脚本可以操作的驱动器接口（*animator.Driver 实现了它）
type Host interface {
	SetAction(action string) bool
	Enqueue(action string) bool
	SetDirection(dir types.Direction) bool
	CurrentAction() string
	CurrentFrame() int
	FacingDirection() types.Direction
}

// EmitFunc 脚本调用 engine.emit(name) 时的回调
type EmitFunc func(name string)

const frameDispatchScript = `
on_frame(__engine, __state)
`

// scriptModules 脚本可导入的标准模块（不开放 os）
var scriptModules = []string{"fmt", "math", "text", "rand", "times", "enum"}

// FrameScript 编译后的帧事件脚本
type FrameScript struct {
	name     string
	compiled *tengo.Compiled
}

// Compile 编译脚本源码，name 用于日志和错误信息
func Compile(name string, src []byte) (*FrameScript, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + frameDispatchScript))
	for _, global := range []string{"__engine", "__state"} {
		if err := script.Add(global, map[string]interface{}{}); err != nil {
			return nil, fmt.Errorf("初始化脚本 %s 失败: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(scriptModules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("编译脚本 %s 失败: %w", name, err)
	}
	return &FrameScript{name: name, compiled: compiled}, nil
}

// Load 从文件系统读取并编译脚本
func Load(fsys fs.FS, path string) (*FrameScript, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("无法读取脚本 %s: %w", path, err)
	}
	return Compile(path, src)
}

// Name 返回脚本名
func (s *FrameScript) Name() string { return s.name }

// Bind 为驱动器生成帧事件回调
//
// 每次 Bind 都会复制一份编译结果，因此不同驱动器之间的全局变量和 state 互不影响。
// 脚本运行出错时只记录日志。
func (s *FrameScript) Bind(host Host, emit EmitFunc) func() {
	compiled := s.compiled.Clone()
	state := &tengo.Map{Value: map[string]tengo.Object{}}
	engine := buildEngine(s.name, host, emit)

	return func() {
		if err := run(compiled, engine, state); err != nil {
			log.Printf("[FrameScript:%s] Error: %v", s.name, err)
		}
	}
}

// Run 用给定的 host 运行一次脚本（调试和测试用）
func (s *FrameScript) Run(host Host, emit EmitFunc) error {
	state := &tengo.Map{Value: map[string]tengo.Object{}}
	return run(s.compiled.Clone(), buildEngine(s.name, host, emit), state)
}

func run(compiled *tengo.Compiled, engine *tengo.ImmutableMap, state *tengo.Map) error {
	if err := compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := compiled.Set("__state", state); err != nil {
		return err
	}
	return compiled.Run()
}

func buildEngine(name string, host Host, emit EmitFunc) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_action"] = &tengo.UserFunction{Name: "set_action", Value: func(args ...tengo.Object) (tengo.Object, error) {
		action := firstString(args)
		if host == nil || action == "" {
			return tengo.FalseValue, nil
		}
		return boolObject(host.SetAction(action)), nil
	}}

	values["enqueue"] = &tengo.UserFunction{Name: "enqueue", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if host == nil || len(args) == 0 {
			return tengo.FalseValue, nil
		}
		ok := true
		for _, arg := range args {
			if action := objectAsString(arg); action == "" || !host.Enqueue(action) {
				ok = false
			}
		}
		return boolObject(ok), nil
	}}

	values["set_direction"] = &tengo.UserFunction{Name: "set_direction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if host == nil || len(args) == 0 {
			return tengo.FalseValue, nil
		}
		dir, err := types.ParseDirection(objectAsString(args[0]))
		if err != nil || !dir.IsSet() {
			log.Printf("[FrameScript:%s] Warning: invalid direction %s", name, args[0].String())
			return tengo.FalseValue, nil
		}
		return boolObject(host.SetDirection(dir)), nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		signal := firstString(args)
		if emit == nil || signal == "" {
			return tengo.FalseValue, nil
		}
		emit(signal)
		return tengo.TrueValue, nil
	}}

	values["action"] = &tengo.UserFunction{Name: "action", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if host == nil {
			return &tengo.String{}, nil
		}
		return &tengo.String{Value: host.CurrentAction()}, nil
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if host == nil {
			return &tengo.Int{}, nil
		}
		return &tengo.Int{Value: int64(host.CurrentFrame())}, nil
	}}

	values["direction"] = &tengo.UserFunction{Name: "direction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if host == nil {
			return &tengo.String{}, nil
		}
		return &tengo.String{Value: host.FacingDirection().String()}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = objectAsString(arg)
		}
		log.Printf("[FrameScript:%s] %s", name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func firstString(args []tengo.Object) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(objectAsString(args[0]))
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
