package animator

import (
	"reflect"
	"testing"
)

// TestTickScheduler_Order 到期回调按时间和调度顺序触发
func TestTickScheduler_Order(t *testing.T) {
	s := NewTickScheduler()

	var calls []string
	s.After(0.2, func() { calls = append(calls, "a") })
	s.After(0.1, func() { calls = append(calls, "b") })
	s.After(0.1, func() { calls = append(calls, "c") })
	s.After(-1, func() { calls = append(calls, "now") })
	s.After(0, nil)

	if s.Pending() != 4 {
		t.Fatalf("Pending = %d, want 4", s.Pending())
	}

	s.Advance(0.15)
	if !reflect.DeepEqual(calls, []string{"now", "b", "c"}) {
		t.Errorf("calls = %v, want [now b c]", calls)
	}

	s.Advance(0.1)
	if !reflect.DeepEqual(calls, []string{"now", "b", "c", "a"}) {
		t.Errorf("calls = %v, want [now b c a]", calls)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
	if !almostEqual(s.Now(), 0.25) {
		t.Errorf("Now = %v, want 0.25", s.Now())
	}
}

// TestTickScheduler_ScheduleInsideCallback 回调中调度的调用在下一次 Advance 触发
func TestTickScheduler_ScheduleInsideCallback(t *testing.T) {
	s := NewTickScheduler()

	count := 0
	s.After(0, func() {
		count++
		s.After(0, func() { count++ })
	})

	s.Advance(0.01)
	if count != 1 {
		t.Errorf("count = %d after first advance, want 1", count)
	}
	s.Advance(0.01)
	if count != 2 {
		t.Errorf("count = %d after second advance, want 2", count)
	}
}

// TestRandSource 测试随机源边界
func TestRandSource(t *testing.T) {
	r := NewRandom(3)

	if r.Intn(0) != 0 || r.Intn(-5) != 0 {
		t.Error("Intn(n <= 0) should return 0")
	}
	if got := r.Range(1.5, 1.5); got != 1.5 {
		t.Errorf("Range(1.5, 1.5) = %v", got)
	}
	for i := 0; i < 100; i++ {
		if v := r.Range(2, 1); v < 1 || v > 2 {
			t.Fatalf("Range(2, 1) = %v out of [1, 2]", v)
		}
	}

	a, b := NewRandom(99), NewRandom(99)
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed should produce the same sequence")
		}
	}
}
