package components

import (
	"github.com/decker502/spriteanim/pkg/types"
)

// PlaybackSnapshot 播放状态快照
//
// 用于存档/读档以及测试中比较"状态未被修改"。
// 快照含队列切片,比较时使用 reflect.DeepEqual。
type PlaybackSnapshot struct {
	Action    string          `yaml:"action"`
	Direction types.Direction `yaml:"direction"`
	Mirrored  bool            `yaml:"mirrored,omitempty"`
	Frame     int             `yaml:"frame"`
	Elapsed   float64         `yaml:"elapsed"`
	Speed     float64         `yaml:"speed"`
	Playing   bool            `yaml:"playing"`
	Reverse   bool            `yaml:"reverse,omitempty"`
	AltIndex  int             `yaml:"alt_index,omitempty"`
	Queue     []QueuedAction  `yaml:"queue,omitempty"`
}

// Capture 从播放状态和队列生成快照
func Capture(state PlaybackState, queue *ActionQueue) PlaybackSnapshot {
	snap := PlaybackSnapshot{
		Action:    state.Action,
		Direction: state.Direction,
		Mirrored:  state.Mirrored,
		Frame:     state.Frame,
		Elapsed:   state.ElapsedTime,
		Speed:     state.Speed,
		Playing:   state.IsPlaying,
		Reverse:   state.Reverse,
		AltIndex:  state.AltIndex,
	}
	if queue != nil {
		snap.Queue = queue.Items()
	}
	return snap
}

// State 将快照还原为播放状态
func (s PlaybackSnapshot) State() PlaybackState {
	speed := s.Speed
	if speed == 0 {
		speed = 1
	}
	return PlaybackState{
		Action:      s.Action,
		Direction:   s.Direction,
		Mirrored:    s.Mirrored,
		Frame:       s.Frame,
		ElapsedTime: s.Elapsed,
		Speed:       speed,
		IsPlaying:   s.Playing,
		Reverse:     s.Reverse,
		AltIndex:    s.AltIndex,
	}
}

// RestoreQueue 用快照中的队列内容替换 queue
func (s PlaybackSnapshot) RestoreQueue(queue *ActionQueue) {
	queue.Clear()
	for _, item := range s.Queue {
		queue.Push(item)
	}
}
