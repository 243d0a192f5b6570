package components

import (
	"reflect"
	"testing"

	"github.com/decker502/spriteanim/pkg/types"
	"gopkg.in/yaml.v3"
)

// TestActionQueue_FIFO 测试先进先出
func TestActionQueue_FIFO(t *testing.T) {
	var q ActionQueue
	q.Push(QueuedAction{Action: "a"})
	q.Push(QueuedAction{Action: "b", Direction: types.DirectionW})

	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
	if head, _ := q.Peek(); head.Action != "a" {
		t.Errorf("Peek = %q, want a", head.Action)
	}

	first, ok := q.Pop()
	if !ok || first.Action != "a" {
		t.Errorf("first Pop = %+v, %v", first, ok)
	}
	second, ok := q.Pop()
	if !ok || second.Action != "b" || second.Direction != types.DirectionW {
		t.Errorf("second Pop = %+v, %v", second, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should return false")
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

// TestActionQueue_Names 测试调试名称列表
func TestActionQueue_Names(t *testing.T) {
	var q ActionQueue
	if q.Names() != "" {
		t.Errorf("empty Names = %q", q.Names())
	}
	q.Push(QueuedAction{Action: "walk"})
	q.Push(QueuedAction{Action: "attack"})
	q.Push(QueuedAction{Action: "idle"})

	if got := q.Names(); got != "walk, attack, idle" {
		t.Errorf("Names = %q, want \"walk, attack, idle\"", got)
	}

	q.Clear()
	if q.Len() != 0 || q.Items() != nil {
		t.Error("Clear should empty the queue")
	}
}

// TestPlaybackState_FacingDirection 测试镜像朝向
func TestPlaybackState_FacingDirection(t *testing.T) {
	s := NewPlaybackState()
	s.Direction = types.DirectionE
	if s.FacingDirection() != types.DirectionE {
		t.Errorf("FacingDirection = %v, want E", s.FacingDirection())
	}
	s.Mirrored = true
	if s.FacingDirection() != types.DirectionW {
		t.Errorf("FacingDirection = %v, want W", s.FacingDirection())
	}
	if s.Speed != 1 || !s.IsPlaying {
		t.Error("NewPlaybackState should default to speed 1 and playing")
	}
}

// TestPlaybackSnapshot_RoundTrip 测试快照采集与还原(含 YAML)
func TestPlaybackSnapshot_RoundTrip(t *testing.T) {
	state := NewPlaybackState()
	state.Action = "attack"
	state.Direction = types.DirectionSE
	state.Frame = 3
	state.ElapsedTime = 0.05
	state.Reverse = true

	var q ActionQueue
	q.Push(QueuedAction{Action: "idle", Direction: types.DirectionS})

	snap := Capture(state, &q)

	data, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded PlaybackSnapshot
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, snap) {
		t.Errorf("decoded = %+v, want %+v", decoded, snap)
	}

	if got := decoded.State(); got != state {
		t.Errorf("State() = %+v, want %+v", got, state)
	}

	var restored ActionQueue
	restored.Push(QueuedAction{Action: "stale"})
	decoded.RestoreQueue(&restored)
	if restored.Names() != "idle" {
		t.Errorf("restored queue = %q, want idle", restored.Names())
	}
}

// TestPlaybackSnapshot_ZeroSpeedDefaults 旧存档缺少 speed 字段时默认 1
func TestPlaybackSnapshot_ZeroSpeedDefaults(t *testing.T) {
	var snap PlaybackSnapshot
	if err := yaml.Unmarshal([]byte("action: walk\ndirection: N\nframe: 2\n"), &snap); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	state := snap.State()
	if state.Speed != 1 || state.Direction != types.DirectionN || state.Frame != 2 {
		t.Errorf("State() = %+v", state)
	}
}
