package scheduler

import (
	"sync/atomic"
	"time"
)

// Timer is a scheduled callback. Stop is idempotent; once it returns, the
// callback will not run.
type Timer interface {
	Stop()
}

// Clock schedules callbacks onto the control loop.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// LoopClock fires time.AfterFunc timers and hands each callback to dispatch,
// which runs it on the UI goroutine (fyne.Do in the app).
type LoopClock struct {
	dispatch func(func())
}

func NewLoopClock(dispatch func(func())) *LoopClock {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &LoopClock{dispatch: dispatch}
}

func (c *LoopClock) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.timer = time.AfterFunc(d, func() {
		c.dispatch(func() {
			// A timer may fire while its Stop is queued behind it on the loop.
			if lt.stopped.Load() {
				return
			}
			fn()
		})
	})
	return lt
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() {
	if t.stopped.Swap(true) {
		return
	}
	t.timer.Stop()
}
