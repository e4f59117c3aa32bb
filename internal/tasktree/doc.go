// Package tasktree runs a bounded, recursively spawned tree of π tasks.
//
// It is split into:
//   - Immutable run definition (Config): budget, worker count, precision range, root seed
//   - Per-task lifecycle (TaskState): validated transitions from Created to a terminal state
//   - Mutable run state (Engine): the shared admission counter, the task queue and
//     the per-worker slots, merged into a RunResult after the single root join
//
// The admitted task set depends on scheduling. The budget is enforced by an
// atomic fetch-and-add on the admission counter; the check made before spawning
// a child is advisory and only trims fruitless recursion near the budget.
package tasktree
