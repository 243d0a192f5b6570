package components

import (
	"strings"

	"github.com/decker502/spriteanim/pkg/types"
)

// QueuedAction 排队等待播放的动作(纯数据)
//
// 当前动作播放到末尾时,驱动器从队列头部取出一项并切换过去。
type QueuedAction struct {
	// Action 动作键(小写)
	Action string `yaml:"action"`

	// Direction 切换时要应用的方向
	// DirectionNone 表示保留当前方向
	Direction types.Direction `yaml:"direction,omitempty"`
}

// ActionQueue 动作队列(FIFO)
type ActionQueue struct {
	items []QueuedAction
}

// Push 入队
func (q *ActionQueue) Push(item QueuedAction) {
	q.items = append(q.items, item)
}

// Pop 出队,队列为空时返回 false
func (q *ActionQueue) Pop() (QueuedAction, bool) {
	if len(q.items) == 0 {
		return QueuedAction{}, false
	}
	item := q.items[0]
	q.items[0] = QueuedAction{}
	q.items = q.items[1:]
	return item, true
}

// Peek 查看队首,不出队
func (q *ActionQueue) Peek() (QueuedAction, bool) {
	if len(q.items) == 0 {
		return QueuedAction{}, false
	}
	return q.items[0], true
}

// Len 返回队列长度
func (q *ActionQueue) Len() int {
	return len(q.items)
}

// IsEmpty 判断队列是否为空
func (q *ActionQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// Clear 清空队列
func (q *ActionQueue) Clear() {
	q.items = nil
}

// Items 返回队列内容的副本(队首在前)
func (q *ActionQueue) Items() []QueuedAction {
	if len(q.items) == 0 {
		return nil
	}
	return append([]QueuedAction(nil), q.items...)
}

// Names 返回以逗号分隔的动作名列表(调试显示用)
func (q *ActionQueue) Names() string {
	names := make([]string, len(q.items))
	for i, item := range q.items {
		names[i] = item.Action
	}
	return strings.Join(names, ", ")
}
