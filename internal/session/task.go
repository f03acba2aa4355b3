package session

import "time"

// Task runs a function once after a delay measured in game time. It is
// driven by the frame loop rather than a wall clock timer, so pausing the
// loop pauses the task and the remaining delay is kept.
type Task struct {
	remaining time.Duration
	fn        func()
	done      bool
}

func Schedule(after time.Duration, fn func()) *Task {
	return &Task{remaining: after, fn: fn}
}

// Advance counts down by dt and runs the task when the delay has passed.
// It reports whether the task ran during this call.
func (t *Task) Advance(dt time.Duration) bool {
	if nil == t || t.done {
		return false
	}
	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.done = true
	if nil != t.fn {
		t.fn()
	}
	return true
}

func (t *Task) Remaining() time.Duration {
	if nil == t || t.done {
		return 0
	}
	return t.remaining
}

// Cancel stops the task from ever running.
func (t *Task) Cancel() {
	if nil == t {
		return
	}
	t.done = true
	t.fn = nil
}

// Done is true once the task ran or was cancelled.
func (t *Task) Done() bool {
	return nil == t || t.done
}
