package tasktree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pitasks/internal/core"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l.WithField("component", "tasktree")
		}
	}
}

// WithMetrics records run counters into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithObserver delivers every terminal task event to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine executes one bounded task tree. It is single use: construct a new
// Engine for every run.
type Engine struct {
	cfg      Config
	log      *logrus.Entry
	metrics  *Metrics
	observer Observer

	// admissions is the shared admission counter. Every task increments it
	// exactly once; only increments that land at or below the budget do work.
	admissions atomic.Int64
	rejected   atomic.Int64
	failed     atomic.Int64

	slots       []WorkerSlot
	queue       *taskQueue
	outstanding sync.WaitGroup
	started     atomic.Bool
}

// NewEngine validates cfg and prepares an engine. Validation happens once,
// here; a returned error is always a *ConfigError.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{
		cfg:   cfg.Normalize(),
		log:   logrus.NewEntry(discard),
		queue: newTaskQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the normalized configuration the engine runs with.
func (e *Engine) Config() Config { return e.cfg }

// Run spawns the root task and blocks until every transitively spawned task
// has finished.
//
// ctx is consulted only before the root task is spawned. Once the tree has
// started it runs to completion.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !e.started.CompareAndSwap(false, true) {
		return nil, errors.New("engine already ran")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run not started: %w", err)
	}

	log := e.log.WithFields(logrus.Fields{
		"budget":  e.cfg.Budget,
		"workers": e.cfg.Workers,
		"lower":   e.cfg.Lower,
		"upper":   e.cfg.Upper,
		"seed":    uint64(e.cfg.Seed),
	})
	log.Debug("starting task tree")

	start := time.Now()
	e.slots = make([]WorkerSlot, e.cfg.Workers)

	var g errgroup.Group
	for i := 0; i < e.cfg.Workers; i++ {
		worker := i
		g.Go(func() error { return e.work(worker) })
	}

	e.spawn(e.cfg.Seed)

	// The single join point: every spawn is counted before it is queued, so
	// outstanding only reaches zero once no task can spawn another.
	e.outstanding.Wait()
	e.queue.close()
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := Finalize(e.slots, e.cfg.Budget)
	res.Admissions = e.admissions.Load()
	res.Rejected = e.rejected.Load()
	res.Failed = e.failed.Load()
	res.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"admitted":   res.AdmittedTotal,
		"rejected":   res.Rejected,
		"failed":     res.Failed,
		"admissions": res.Admissions,
		"average":    res.Average,
		"elapsed":    res.Elapsed,
	}).Debug("task tree joined")

	return &res, nil
}

// work is the loop of worker id. It returns the first internal error raised
// by a task, after draining the queue so the join still completes.
func (e *Engine) work(id int) error {
	var firstErr error
	for {
		seed, ok := e.queue.pop()
		if !ok {
			return firstErr
		}
		if err := e.runTask(id, seed); err != nil && firstErr == nil {
			firstErr = err
		}
	}
}

func (e *Engine) spawn(seed core.TaskSeed) {
	e.outstanding.Add(1)
	e.queue.push(seed)
}

// runTask executes the per-task protocol on worker id.
func (e *Engine) runTask(id int, seed core.TaskSeed) (err error) {
	defer e.outstanding.Done()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s on worker %d: %v", seed, id, r)
		}
	}()

	lc := newLifecycle()
	lc.advance(TaskAdmissionChecked)

	n := e.admissions.Add(1)
	if n > e.cfg.Budget {
		lc.advance(TaskRejected)
		e.rejected.Add(1)
		e.metrics.taskRejected()
		e.finish(TaskEvent{Seed: seed, Worker: id, State: lc.state, Admission: n})
		return nil
	}
	lc.advance(TaskAdmitted)

	lc.advance(TaskWorking)
	res, werr := core.Work(seed, e.cfg.Lower, e.cfg.Upper)
	if werr != nil {
		lc.advance(TaskFailed)
		e.failed.Add(1)
		e.metrics.taskFailed()
		e.log.WithError(fmt.Errorf("%w: %w", ErrTaskFailed, werr)).WithField("worker", id).Warn("task failed")
		e.finish(TaskEvent{Seed: seed, Worker: id, State: lc.state, Admission: n, Precision: res.Precision})
		return nil
	}
	e.slots[id].fold(res.Estimate)
	e.metrics.taskAdmitted(res.Precision)

	lc.advance(TaskFanningOut)
	candidates := core.SpawnCount(seed)
	spawned := 0
	for i := 0; i < candidates; i++ {
		// Advisory: a racing sibling may use up the budget after this load,
		// in which case the child is rejected at its own admission check.
		if e.admissions.Load() >= e.cfg.Budget {
			e.metrics.spawnSuppressed()
			continue
		}
		e.spawn(core.ChildSeed(seed, i, id))
		e.metrics.spawned()
		spawned++
	}
	lc.advance(TaskJoined)

	e.finish(TaskEvent{
		Seed:      seed,
		Worker:    id,
		State:     lc.state,
		Admission: n,
		Precision: res.Precision,
		Estimate:  res.Estimate,
		Children:  spawned,
	})
	return nil
}

func (e *Engine) finish(event TaskEvent) {
	if e.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		e.log.WithFields(logrus.Fields{
			"seed":      event.Seed.String(),
			"worker":    event.Worker,
			"state":     event.State,
			"admission": event.Admission,
			"precision": event.Precision,
			"children":  event.Children,
		}).Trace("task finished")
	}
	safeNotify(e.observer, event)
}
