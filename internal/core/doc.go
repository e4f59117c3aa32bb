// Package core holds the pure building blocks of a task-tree run.
//
// Nothing in this package touches shared state. Every function is a total,
// deterministic function of its arguments (NextInRange also advances the
// caller-owned state it is handed):
//
//   - Mix and Pack derive child seeds from a parent seed.
//   - NextInRange is the xorshift generator used to draw precisions and fan-out.
//   - EstimatePi is the midpoint-rule integrator.
//   - Work, SpawnCount and ChildSeed compose the above into the per-task steps
//     the engine executes.
package core
