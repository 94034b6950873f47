// Package timer implements the rest countdown as a pure state machine.
// Callers feed it one Tick per second; it never schedules time itself, so
// tests drive it deterministically and the TUI drives it from its tick
// messages.
package timer

import "fmt"

// Options are the selectable rest durations in seconds.
var Options = []int{30, 45, 60, 90, 120}

// doneHoldTicks is how many ticks the finished state stays visible before
// the timer returns to idle.
const doneHoldTicks = 2

// State is the countdown phase.
type State int

const (
	Idle State = iota
	Running
	Paused
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Timer is a rest countdown. The zero value is an idle timer.
type Timer struct {
	state     State
	duration  int
	remaining int
	doneTicks int
}

// State returns the current phase.
func (t *Timer) State() State { return t.state }

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int { return t.remaining }

// Duration returns the seconds the countdown started from.
func (t *Timer) Duration() int { return t.duration }

// Start begins a countdown of the given seconds, replacing any countdown in
// progress.
func (t *Timer) Start(seconds int) {
	if seconds <= 0 {
		return
	}
	t.state = Running
	t.duration = seconds
	t.remaining = seconds
	t.doneTicks = 0
}

// Pause freezes a running countdown. Callers stop sending ticks while
// paused.
func (t *Timer) Pause() {
	if t.state == Running {
		t.state = Paused
	}
}

// Resume continues a paused countdown.
func (t *Timer) Resume() {
	if t.state == Paused {
		t.state = Running
	}
}

// Stop abandons the countdown and returns to idle.
func (t *Timer) Stop() {
	*t = Timer{}
}

// Active reports whether the caller should keep sending ticks.
func (t *Timer) Active() bool {
	return t.state == Running || t.state == Done
}

// Tick advances the countdown by one second. Reaching zero enters Done,
// which holds for a moment so the finish is visible, then returns to idle.
func (t *Timer) Tick() {
	switch t.state {
	case Running:
		t.remaining--
		if t.remaining <= 0 {
			t.remaining = 0
			t.state = Done
			t.doneTicks = 0
		}
	case Done:
		t.doneTicks++
		if t.doneTicks >= doneHoldTicks {
			*t = Timer{}
		}
	}
}
