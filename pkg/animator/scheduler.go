package animator

import "sort"

// Scheduler 延迟调用调度器
//
// After 在 delay 秒之后调用 fn 一次。不保证可以取消；
// 在前一个延迟回调触发前再次调度，两个回调都会触发。
type Scheduler interface {
	After(delay float64, fn func())
}

type scheduledCall struct {
	at  float64
	seq int
	fn  func()
}

// TickScheduler 基于逐帧倒计时的调度器
//
// 时间由宿主通过 Advance 推进（Driver 未注入调度器时会自己持有一个，
// 并在每次 Tick 开始时推进）。
type TickScheduler struct {
	now     float64
	seq     int
	pending []scheduledCall
}

// NewTickScheduler 创建调度器
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// After 实现 Scheduler
func (s *TickScheduler) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.pending = append(s.pending, scheduledCall{at: s.now + delay, seq: s.seq, fn: fn})
}

// Advance 推进时间并触发所有到期的回调（按到期时间、调度顺序）
//
// 回调中新调度的调用最早在下一次 Advance 时触发。
func (s *TickScheduler) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	if len(s.pending) == 0 {
		return
	}

	var due []scheduledCall
	remaining := s.pending[:0]
	for _, call := range s.pending {
		if call.at <= s.now {
			due = append(due, call)
		} else {
			remaining = append(remaining, call)
		}
	}
	s.pending = remaining
	if len(due) == 0 {
		return
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, call := range due {
		call.fn()
	}
}

// Pending 返回尚未触发的回调数量
func (s *TickScheduler) Pending() int {
	return len(s.pending)
}

// Now 返回调度器内部时钟（秒）
func (s *TickScheduler) Now() float64 {
	return s.now
}
