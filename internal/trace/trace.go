package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// TaskTrace is the canonical record of the tasks a run finished.
//
// Canonical representation:
//   - Events are sorted via Canonicalize() using a fully-specified ordering.
//   - JSON serialization uses custom marshalers to fix field order and omit
//     zero-valued optional fields.
//
// Which tasks run depends on scheduling, so two runs with several workers
// generally produce different traces. With a single worker the tree is walked
// in a fixed order and the canonical bytes are identical run to run.
type TaskTrace struct {
	ConfigHash string
	Events     []TraceEvent
}

// TraceEventKind is the stable, canonical discriminator for TraceEvent.
// The string values are part of the trace's canonical bytes; do not rename.
type TraceEventKind string

const (
	EventTaskAdmitted TraceEventKind = "TaskAdmitted"
	EventTaskRejected TraceEventKind = "TaskRejected"
	EventTaskFailed   TraceEventKind = "TaskFailed"
)

// TraceEvent is one task reaching a terminal state.
type TraceEvent struct {
	Kind TraceEventKind

	// TaskID is the task seed in fixed-width hex.
	TaskID string

	// Admission is the admission counter value the task's increment produced.
	Admission int64

	// Worker is the id of the worker that executed the task.
	Worker int

	// Precision, Estimate and Children are zero for rejected tasks.
	Precision uint64
	Estimate  float64
	Children  int
}

// Validate checks basic invariants and returns a descriptive error.
func (t *TaskTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.ConfigHash == "" {
		return errors.New("configHash is required")
	}
	for i := range t.Events {
		e := t.Events[i]
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.TaskID == "" {
			return fmt.Errorf("events[%d].taskId is required for kind %q", i, e.Kind)
		}
		if e.Admission <= 0 {
			return fmt.Errorf("events[%d].admission must be positive", i)
		}
		if e.Worker < 0 {
			return fmt.Errorf("events[%d].worker must not be negative", i)
		}
		if e.Kind == EventTaskAdmitted && e.Precision == 0 {
			return fmt.Errorf("events[%d].precision is required for kind %q", i, e.Kind)
		}
	}
	return nil
}

// Canonicalize sorts events by (taskId, kindOrder, admission, worker).
func (t *TaskTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a := t.Events[i]
		b := t.Events[j]

		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Admission != b.Admission {
			return a.Admission < b.Admission
		}
		return a.Worker < b.Worker
	})
}

func kindOrder(k TraceEventKind) int {
	switch k {
	case EventTaskAdmitted:
		return 10
	case EventTaskFailed:
		return 20
	case EventTaskRejected:
		return 30
	default:
		return 1000
	}
}

// Counts returns the number of events of each kind.
func (t TaskTrace) Counts() map[TraceEventKind]int {
	out := make(map[TraceEventKind]int, 3)
	for _, e := range t.Events {
		out[e.Kind]++
	}
	return out
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy of the trace to avoid mutating the caller's slices.
func (t TaskTrace) CanonicalJSON() ([]byte, error) {
	copyTrace := TaskTrace{ConfigHash: t.ConfigHash}
	copyTrace.Events = make([]TraceEvent, len(t.Events))
	copy(copyTrace.Events, t.Events)
	copyTrace.Canonicalize()
	if err := copyTrace.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&copyTrace)
}

// Hash returns the trace hash (sha256 hex) of the canonical JSON bytes.
func (t TaskTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// WriteFile writes the canonical JSON encoding to path, creating parent
// directories as needed.
func (t TaskTrace) WriteFile(path string) error {
	b, err := t.CanonicalJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

// MarshalJSON ensures canonical field ordering and omission rules.
func (t TaskTrace) MarshalJSON() ([]byte, error) {
	if t.ConfigHash == "" {
		return nil, errors.New("configHash is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString("\"configHash\":")
	ch, _ := json.Marshal(t.ConfigHash)
	buf.Write(ch)
	buf.WriteByte(',')

	buf.WriteString("\"events\":[")
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON ensures canonical field ordering and omission of zero optional fields.
func (e TraceEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	// kind (always first)
	buf.WriteString("\"kind\":")
	kb, _ := json.Marshal(string(e.Kind))
	buf.Write(kb)

	writeField := func(name string, v any) {
		buf.WriteByte(',')
		buf.WriteByte('"')
		buf.WriteString(name)
		buf.WriteString("\":")
		b, _ := json.Marshal(v)
		buf.Write(b)
	}

	writeField("taskId", e.TaskID)
	writeField("admission", e.Admission)
	writeField("worker", e.Worker)
	if e.Precision != 0 {
		writeField("precision", e.Precision)
	}
	if e.Estimate != 0 {
		writeField("estimate", e.Estimate)
	}
	if e.Children != 0 {
		writeField("children", e.Children)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
