package events

import "github.com/decker502/spriteanim/pkg/library"

// ActionHandler 全局动作监听器，参数为动作键
type ActionHandler func(action string)

// ActionSignal 动作监听器列表
//
// 触发顺序：先全局监听器，再该动作的专属监听器，各自按注册顺序。
type ActionSignal struct {
	global    []ActionHandler
	perAction map[string][]func()
}

// NewActionSignal 创建空的信号
func NewActionSignal() *ActionSignal {
	return &ActionSignal{perAction: make(map[string][]func())}
}

// Connect 注册全局监听器
func (s *ActionSignal) Connect(h ActionHandler) {
	if h == nil {
		return
	}
	s.global = append(s.global, h)
}

// ConnectAction 注册单个动作的监听器
func (s *ActionSignal) ConnectAction(action string, fn func()) {
	if fn == nil {
		return
	}
	key := library.NormalizeAction(action)
	s.perAction[key] = append(s.perAction[key], fn)
}

// Emit 触发信号
func (s *ActionSignal) Emit(action string) {
	key := library.NormalizeAction(action)

	global := append([]ActionHandler(nil), s.global...)
	for _, h := range global {
		h(key)
	}

	local := append([]func(){}, s.perAction[key]...)
	for _, fn := range local {
		fn()
	}
}

// HandlerCount 返回动作上会被触发的监听器总数（全局 + 专属）
func (s *ActionSignal) HandlerCount(action string) int {
	return len(s.global) + len(s.perAction[library.NormalizeAction(action)])
}

// DisconnectAction 移除某个动作的所有专属监听器
func (s *ActionSignal) DisconnectAction(action string) {
	delete(s.perAction, library.NormalizeAction(action))
}

// Reset 移除全部监听器
func (s *ActionSignal) Reset() {
	s.global = nil
	s.perAction = make(map[string][]func())
}
