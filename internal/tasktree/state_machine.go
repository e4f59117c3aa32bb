package tasktree

import "fmt"

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s TaskState) bool {
	switch s {
	case TaskRejected, TaskJoined, TaskFailed:
		return true
	default:
		return false
	}
}

// Transition validates a single lifecycle step. There is no retry edge: once
// a task is terminal it stays terminal.
func Transition(from, to TaskState) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed task transition: %s -> %s", from, to)
	}
	return nil
}

func isAllowedTransition(from, to TaskState) bool {
	switch from {
	case TaskCreated:
		return to == TaskAdmissionChecked
	case TaskAdmissionChecked:
		return to == TaskRejected || to == TaskAdmitted
	case TaskAdmitted:
		return to == TaskWorking
	case TaskWorking:
		return to == TaskFanningOut || to == TaskFailed
	case TaskFanningOut:
		return to == TaskJoined
	default:
		return false
	}
}

// lifecycle tracks one task through its states. It is owned by the worker
// executing the task and is never shared.
type lifecycle struct {
	state TaskState
}

func newLifecycle() lifecycle { return lifecycle{state: TaskCreated} }

// advance moves to the next state. A disallowed step is a programming error in
// the engine, so it panics rather than returning.
func (l *lifecycle) advance(to TaskState) {
	if err := Transition(l.state, to); err != nil {
		panic(err)
	}
	l.state = to
}
