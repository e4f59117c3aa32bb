package tasktree

import "pitasks/internal/core"

// TaskEvent describes a task that reached a terminal state.
type TaskEvent struct {
	Seed   core.TaskSeed
	Worker int
	State  TaskState
	// Admission is the counter value this task's increment produced.
	Admission int64
	// Precision and Estimate are zero for rejected tasks.
	Precision uint64
	Estimate  float64
	// Children is the number of child tasks actually spawned.
	Children int
}

// Observer receives every terminal task event. It is called concurrently from
// all workers and must not block.
type Observer interface {
	TaskFinished(event TaskEvent)
}

// safeNotify delivers an event and swallows observer panics so that a buggy
// observer cannot break the run.
func safeNotify(o Observer, event TaskEvent) {
	if o == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	o.TaskFinished(event)
}
