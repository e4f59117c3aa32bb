package core

import (
	"fmt"
	"strconv"
)

// MaxFanOut is the largest number of children a task may attempt to spawn.
const MaxFanOut = 4

// TaskSeed threads all randomness of a task. A task never mutates its own
// seed; it derives new ones for its children.
type TaskSeed uint64

// String renders the seed as fixed-width hex. Trace events use it as the task id.
func (s TaskSeed) String() string {
	return fmt.Sprintf("%016x", uint64(s))
}

// ParseTaskSeed parses a decimal seed as given on the command line.
func ParseTaskSeed(s string) (TaskSeed, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TaskSeed(v), nil
}

// TaskResult is the outcome of one admitted task's work. It is folded into the
// executing worker's slot and not retained afterwards.
type TaskResult struct {
	Seed      TaskSeed
	Precision uint64
	Estimate  float64
}

// Work draws the task's precision from [lower, upper) using a generator seeded
// with seed and integrates at that precision.
func Work(seed TaskSeed, lower, upper uint64) (TaskResult, error) {
	state := uint64(seed)
	precision := NextInRange(&state, lower, upper)
	estimate, err := EstimatePi(precision)
	if err != nil {
		return TaskResult{Seed: seed, Precision: precision}, fmt.Errorf("task %s: %w", seed, err)
	}
	return TaskResult{Seed: seed, Precision: precision, Estimate: estimate}, nil
}

// SpawnCount returns how many children (1..MaxFanOut) a task attempts to spawn.
// It draws from Mix(seed) so fan-out is independent of the work draw.
func SpawnCount(seed TaskSeed) int {
	state := Mix(uint64(seed))
	return int(NextInRange(&state, 1, MaxFanOut+1))
}

// ChildSeed derives the seed of the index-th child (zero-based) spawned by
// worker (zero-based). Both are shifted by one before packing so that neither
// contributes a bare zero digit.
func ChildSeed(seed TaskSeed, index, worker int) TaskSeed {
	packed := Pack(uint32(index+1), uint32(worker+1))
	return TaskSeed(Mix(uint64(seed) * uint64(packed)))
}
