package trace

import (
	"sync"

	"pitasks/internal/tasktree"
)

// Recorder is a concurrency-safe in-memory collector of finished tasks. It
// implements tasktree.Observer.
//
// Recording uses a single mutex. This adds contention on busy runs, but it
// does not affect the canonical trace ordering because ordering is computed
// after collection.
type Recorder struct {
	mu     sync.Mutex
	events []TraceEvent
}

var _ tasktree.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder { return &Recorder{} }

// TaskFinished converts a terminal task event into a trace event.
func (r *Recorder) TaskFinished(event tasktree.TaskEvent) {
	if r == nil {
		return
	}
	r.Record(fromTaskEvent(event))
}

// Record appends a single event.
func (r *Recorder) Record(event TraceEvent) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded events.
func (r *Recorder) Snapshot() []TraceEvent {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Trace builds a canonical TaskTrace from the currently recorded events.
// The returned trace is independent from the recorder (events are copied).
func (r *Recorder) Trace(configHash string) TaskTrace {
	tr := TaskTrace{ConfigHash: configHash}
	tr.Events = r.Snapshot()
	tr.Canonicalize()
	return tr
}

func fromTaskEvent(event tasktree.TaskEvent) TraceEvent {
	te := TraceEvent{
		TaskID:    event.Seed.String(),
		Admission: event.Admission,
		Worker:    event.Worker,
		Precision: event.Precision,
		Estimate:  event.Estimate,
		Children:  event.Children,
	}
	switch event.State {
	case tasktree.TaskRejected:
		te.Kind = EventTaskRejected
	case tasktree.TaskFailed:
		te.Kind = EventTaskFailed
	default:
		te.Kind = EventTaskAdmitted
	}
	return te
}
