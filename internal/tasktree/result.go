package tasktree

import "time"

// RunResult is the summary of one run, built once after every task has
// finished.
type RunResult struct {
	// Average is TotalPi divided by min(AdmittedTotal, budget).
	Average float64
	// TotalPi is the sum of every folded estimate.
	TotalPi float64
	// AdmittedTotal is the number of tasks whose estimate was folded.
	AdmittedTotal int64

	// Admissions is the final admission counter: every task that reached the
	// admission check, rejected ones included.
	Admissions int64
	// Rejected counts tasks turned away by the budget.
	Rejected int64
	// Failed counts admitted tasks whose work could not be computed.
	Failed int64

	// WorkerCounts holds the number of tasks each worker executed, by worker id.
	WorkerCounts []int64

	// Elapsed is measured on the monotonic clock from the start of Run to the join.
	Elapsed time.Duration
}
